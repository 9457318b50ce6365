package cluster

type SizeClass string

const (
	SizeValid    SizeClass = "valid"
	SizeTooSmall SizeClass = "too_small"
	SizeTooLarge SizeClass = "too_large"
)

type ClusterSize struct {
	ClusterID int       `json:"cluster_id"`
	Size      int       `json:"size"`
	Class     SizeClass `json:"class"`
}

// Summary is a read-only report over an Assignment.
type Summary struct {
	Clusters    []ClusterSize `json:"clusters"`
	NSingletons int           `json:"n_singletons"`
	NValid      int           `json:"n_valid"`
	NTooSmall   int           `json:"n_too_small"`
	NTooLarge   int           `json:"n_too_large"`
}

func ClassifySize(size, minSize, maxSize int) SizeClass {
	switch {
	case size < minSize:
		return SizeTooSmall
	case size > maxSize:
		return SizeTooLarge
	default:
		return SizeValid
	}
}

// Classify labels every cluster against [minSize, maxSize] and counts unclustered terms.
// The assignment is not modified.
func Classify(a *Assignment, minSize, maxSize int) Summary {
	s := Summary{Clusters: make([]ClusterSize, 0, len(a.Clusters))}
	for _, c := range a.Clusters {
		class := ClassifySize(c.Size(), minSize, maxSize)
		s.Clusters = append(s.Clusters, ClusterSize{ClusterID: c.ID, Size: c.Size(), Class: class})
		switch class {
		case SizeValid:
			s.NValid++
		case SizeTooSmall:
			s.NTooSmall++
		case SizeTooLarge:
			s.NTooLarge++
		}
	}
	for _, t := range a.Terms {
		if !t.Membership.IsClustered() {
			s.NSingletons++
		}
	}
	return s
}
