package model

import "encoding/json"

// UnclusteredID is the cluster id reported for terms outside any cluster.
const UnclusteredID = -1

// Membership is the clustering outcome of one term: either Unclustered or Member(id).
// The zero value is Unclustered.
type Membership struct {
	id        int
	clustered bool
}

func Unclustered() Membership {
	return Membership{}
}

func Member(clusterID int) Membership {
	return Membership{id: clusterID, clustered: true}
}

func (m Membership) IsClustered() bool {
	return m.clustered
}

// ClusterID returns the cluster id, or UnclusteredID.
func (m Membership) ClusterID() int {
	if !m.clustered {
		return UnclusteredID
	}
	return m.id
}

// AnnotatedTerm is a Term carrying its clustering outcome. Built fresh for every run,
// the input Term is copied, never modified.
type AnnotatedTerm struct {
	Term
	Membership       Membership
	IsRepresentative bool
}

type annotatedTermJSON struct {
	Term             json.RawMessage `json:"term"`
	ClusterID        int             `json:"cluster_id"`
	IsRepresentative bool            `json:"is_representative"`
}

func (a AnnotatedTerm) MarshalJSON() ([]byte, error) {
	term, err := json.Marshal(a.Term)
	if err != nil {
		return nil, err
	}
	return json.Marshal(annotatedTermJSON{term, a.Membership.ClusterID(), a.IsRepresentative})
}

// UnmarshalJSON reads the shape written by MarshalJSON. A negative cluster_id
// decodes as Unclustered.
func (a *AnnotatedTerm) UnmarshalJSON(data []byte) error {
	in := annotatedTermJSON{ClusterID: UnclusteredID}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var term Term
	if len(in.Term) > 0 {
		if err := json.Unmarshal(in.Term, &term); err != nil {
			return err
		}
	}
	a.Term = term
	a.Membership = Unclustered()
	if in.ClusterID >= 0 {
		a.Membership = Member(in.ClusterID)
	}
	a.IsRepresentative = in.IsRepresentative
	return nil
}
