package converter

import "github.com/epd-tools/epd2lcabyg/internal/lcabyg"

// aggregated lists the module codes folded into lcabyg.AggregateModule.
var aggregated = map[string]struct{}{
	"A1-A3": {},
	"A1":    {},
	"A2":    {},
	"A3":    {},
}

// IsAggregated reports whether module is summed into the A1to3 stage.
func IsAggregated(module string) bool {
	_, ok := aggregated[module]
	return ok
}

// orderedSet keeps the first-seen order of its members.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) list() []string { return append([]string(nil), s.items...) }

// TargetModules returns the modules one stage is built for: the aggregate
// module first, then each other observed module in discovery order.
func TargetModules(observed []string) []string {
	var set orderedSet
	set.add(lcabyg.AggregateModule)
	for _, m := range observed {
		if IsAggregated(m) {
			continue
		}
		set.add(m)
	}
	return set.list()
}
