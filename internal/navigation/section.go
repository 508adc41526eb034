package navigation

// Section identifies a view.
type Section string

const (
	SectionHome      Section = "home"
	SectionPersons   Section = "persons"
	SectionMovements Section = "movements"
	SectionTimeline  Section = "timeline"
	SectionMindMap   Section = "mindmap"
	SectionResources Section = "resources"
	// SectionDetail is the synthetic single-entity view.
	SectionDetail Section = "detailPage"
)

// ListSections are the sections reachable from the tab bar, in tab order.
var ListSections = []Section{
	SectionHome,
	SectionPersons,
	SectionMovements,
	SectionTimeline,
	SectionMindMap,
	SectionResources,
}

// Known reports whether s is a list section or the detail page.
func (s Section) Known() bool {
	if s == SectionDetail {
		return true
	}
	for _, l := range ListSections {
		if s == l {
			return true
		}
	}
	return false
}

// State is the view state owned by a Controller.
type State struct {
	// Current is the visible section.
	Current Section `json:"current"`
	// LastList is the most recent section other than the detail page; closing
	// the detail page returns here.
	LastList Section `json:"last_list"`
}
