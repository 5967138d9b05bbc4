package freight

import (
	"sort"
	"strconv"
	"strings"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
)

type islandIndex struct {
	zone    domain.Zone
	regions map[string]struct{}
	cities  map[string]struct{}
	// sorted, longest first
	cityList []string
}

// Resolver classifies addresses into shipping zones.
type Resolver struct {
	countries map[string]CountryRule
	islands   []islandIndex
	postcodes []PostcodeRange
	fallback  domain.Zone
	localCity string
}

// NewResolver indexes table for lookups. localCity is the city that resolves
// to the local zone; blank means domain.DefaultLocalZoneCity.
func NewResolver(table *ZoneTable, localCity string) *Resolver {
	r := &Resolver{
		countries: make(map[string]CountryRule, len(table.Countries)),
		postcodes: append([]PostcodeRange(nil), table.Postcodes...),
		fallback:  table.FallbackZone,
	}
	for name, rule := range table.Countries {
		r.countries[Normalize(name)] = rule
	}
	for _, island := range table.Islands {
		idx := islandIndex{
			zone:    island.Zone,
			regions: toSet(island.Regions),
			cities:  toSet(island.Cities),
		}
		for city := range idx.cities {
			idx.cityList = append(idx.cityList, city)
		}
		sort.Slice(idx.cityList, func(i, j int) bool {
			a, b := idx.cityList[i], idx.cityList[j]
			if len(a) != len(b) {
				return len(a) > len(b)
			}
			return a < b
		})
		r.islands = append(r.islands, idx)
	}
	if r.fallback == "" {
		r.fallback = domain.ZoneNorthIsland
	}
	return r.WithLocalCity(localCity)
}

// WithLocalCity returns a resolver sharing the same indexes but mapping city
// to the local zone. The receiver is not modified.
func (r *Resolver) WithLocalCity(city string) *Resolver {
	out := *r
	out.localCity = Normalize(city)
	if out.localCity == "" {
		out.localCity = Normalize(domain.DefaultLocalZoneCity)
	}
	return &out
}

// Resolve returns the zone of addr.
//
// An empty country is an input error. A country missing from the table yields
// an *domain.UnsupportedCountryError so checkout can ask for a manual zone.
// Sub-national countries never fail: unmatched addresses get the fallback zone.
func (r *Resolver) Resolve(addr domain.Address) (domain.Zone, error) {
	country := Normalize(addr.Country)
	if country == "" {
		return "", domain.NewInputError("country", "country required")
	}

	rule, ok := r.countries[country]
	if !ok {
		return "", &domain.UnsupportedCountryError{Country: strings.TrimSpace(addr.Country)}
	}
	if !rule.SubNational {
		return rule.Zone, nil
	}
	return r.resolveSubNational(addr), nil
}

func (r *Resolver) resolveSubNational(addr domain.Address) domain.Zone {
	city := Normalize(addr.City)
	if city != "" {
		if city == r.localCity {
			return domain.ZoneLocal
		}
		for _, island := range r.islands {
			if _, ok := island.cities[city]; ok {
				return island.zone
			}
		}
	}

	if state := Normalize(addr.State); state != "" {
		for _, island := range r.islands {
			if _, ok := island.regions[state]; ok {
				return island.zone
			}
		}
	}

	if zone, ok := r.byPostcode(addr.PostalCode); ok {
		return zone
	}

	if zone, ok := r.byFreeText(addr.FormattedAddress); ok {
		return zone
	}

	return r.fallback
}

func (r *Resolver) byPostcode(postcode string) (domain.Zone, bool) {
	postcode = strings.TrimSpace(postcode)
	if len(postcode) != 4 {
		return "", false
	}
	n, err := strconv.Atoi(postcode)
	if err != nil {
		return "", false
	}
	for _, rng := range r.postcodes {
		if n >= rng.From && n <= rng.To {
			return rng.Zone, true
		}
	}
	return "", false
}

// byFreeText picks the known city that ends furthest right in text, since
// the locality follows street names. Ties go to the longer name.
func (r *Resolver) byFreeText(text string) (domain.Zone, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return "", false
	}
	padded := " " + normalized + " "

	var (
		best    domain.Zone
		bestEnd = -1
		bestLen int
	)
	consider := func(city string, zone domain.Zone) {
		i := strings.LastIndex(padded, " "+city+" ")
		if i < 0 {
			return
		}
		end := i + len(city)
		if end > bestEnd || (end == bestEnd && len(city) > bestLen) {
			best, bestEnd, bestLen = zone, end, len(city)
		}
	}

	consider(r.localCity, domain.ZoneLocal)
	for _, island := range r.islands {
		for _, city := range island.cityList {
			if city != r.localCity {
				consider(city, island.zone)
			}
		}
	}
	return best, bestEnd >= 0
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if n := Normalize(name); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
