// Package freight implements shipping zone resolution, freight cost calculation,
// per-zone default costs and freight configuration validation.
//
// Everything here is a pure function of its inputs: no I/O, no shared mutable
// state. Instances are safe for concurrent use once constructed.
package freight

import (
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"

	"github.com/shopspring/decimal"
)

// CountryRule maps a country alias to a zone. SubNational countries are
// resolved from city, region and postcode instead.
type CountryRule struct {
	Zone        domain.Zone
	SubNational bool
}

// PostcodeRange maps an inclusive range of 4-digit NZ postcodes to a zone.
type PostcodeRange struct {
	From int
	To   int
	Zone domain.Zone
}

// Island lists the regions and cities that belong to one sub-national zone.
type Island struct {
	Zone    domain.Zone
	Regions []string
	Cities  []string
}

// ZoneTable is the single source of truth for zone metadata, country
// classification and default cost multipliers. The resolver, calculator and
// defaults engine all read from the same table.
type ZoneTable struct {
	Zones     []domain.ZoneInfo
	Countries map[string]CountryRule
	// Checked in order; the first island claiming a city or region wins.
	Islands   []Island
	Postcodes []PostcodeRange
	// Used for sub-national addresses nothing else matches.
	FallbackZone domain.Zone
}

// Info returns the metadata of zone.
func (t *ZoneTable) Info(zone domain.Zone) (domain.ZoneInfo, bool) {
	for _, info := range t.Zones {
		if info.Zone == zone {
			return info, true
		}
	}
	return domain.ZoneInfo{}, false
}

// Multipliers returns the default cost multiplier of every non-local zone.
func (t *ZoneTable) Multipliers() map[domain.Zone]decimal.Decimal {
	out := make(map[domain.Zone]decimal.Decimal, len(t.Zones))
	for _, info := range t.Zones {
		if info.Zone == domain.ZoneLocal {
			continue
		}
		out[info.Zone] = info.Multiplier
	}
	return out
}

func mult(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultZoneTable returns a fresh copy of the built-in table.
func DefaultZoneTable() *ZoneTable {
	return &ZoneTable{
		Zones: []domain.ZoneInfo{
			{Zone: domain.ZoneLocal, Name: "Local Delivery", Category: domain.CategoryLocal, Multiplier: mult("1")},
			{Zone: domain.ZoneNorthIsland, Name: "North Island", Category: domain.CategoryNational, Multiplier: mult("1.5")},
			{Zone: domain.ZoneSouthIsland, Name: "South Island", Category: domain.CategoryNational, Multiplier: mult("2.83")},
			{Zone: domain.ZoneIntlAsia, Name: "International - Asia", Category: domain.CategoryInternational, Multiplier: mult("4.0")},
			{Zone: domain.ZoneIntlNorthAmerica, Name: "International - North America", Category: domain.CategoryInternational, Multiplier: mult("5.0")},
			{Zone: domain.ZoneIntlEurope, Name: "International - Europe", Category: domain.CategoryInternational, Multiplier: mult("5.0")},
			{Zone: domain.ZoneIntlAfrica, Name: "International - Africa", Category: domain.CategoryInternational, Multiplier: mult("6.0")},
			{Zone: domain.ZoneIntlLatinAmerica, Name: "International - Latin America", Category: domain.CategoryInternational, Multiplier: mult("5.33")},
		},
		Countries: defaultCountries(),
		Islands: []Island{
			{
				Zone: domain.ZoneSouthIsland,
				Regions: []string{
					"Tasman", "Nelson", "Marlborough", "West Coast", "Canterbury", "Otago", "Southland",
				},
				Cities: []string{
					"Christchurch", "Dunedin", "Queenstown", "Invercargill", "Nelson", "Blenheim",
					"Timaru", "Greymouth", "Ashburton", "Oamaru", "Wanaka", "Richmond", "Hokitika",
					"Kaikoura", "Westport", "Gore", "Motueka", "Rangiora", "Rolleston", "Picton",
					"Te Anau", "Alexandra", "Cromwell", "Mosgiel", "Lincoln", "Kaiapoi",
				},
			},
			{
				Zone: domain.ZoneNorthIsland,
				Regions: []string{
					"Northland", "Auckland", "Waikato", "Bay of Plenty", "Gisborne", "Hawke's Bay",
					"Taranaki", "Manawatū-Whanganui", "Manawatu-Wanganui", "Wellington",
				},
				Cities: []string{
					"Auckland", "Hamilton", "Tauranga", "Rotorua", "Whangārei", "Napier", "Hastings",
					"New Plymouth", "Palmerston North", "Whanganui", "Wanganui", "Wellington",
					"Lower Hutt", "Upper Hutt", "Porirua", "Gisborne", "Taupō", "Whakatāne",
					"Masterton", "Mount Maunganui", "Papamoa", "Te Puke", "Cambridge", "Te Awamutu",
					"Pukekohe", "Levin", "Paraparaumu", "Feilding", "Hawera", "Kerikeri", "Thames",
					"Tokoroa", "Dannevirke", "Waiuku", "Whitianga", "Matamata", "Katikati",
				},
			},
		},
		Postcodes: []PostcodeRange{
			{From: 100, To: 6999, Zone: domain.ZoneNorthIsland},
			{From: 7000, To: 9999, Zone: domain.ZoneSouthIsland},
		},
		FallbackZone: domain.ZoneNorthIsland,
	}
}

func defaultCountries() map[string]CountryRule {
	nz := CountryRule{SubNational: true}
	asia := CountryRule{Zone: domain.ZoneIntlAsia}
	northAmerica := CountryRule{Zone: domain.ZoneIntlNorthAmerica}
	europe := CountryRule{Zone: domain.ZoneIntlEurope}
	africa := CountryRule{Zone: domain.ZoneIntlAfrica}
	latinAmerica := CountryRule{Zone: domain.ZoneIntlLatinAmerica}

	return map[string]CountryRule{
		// Sub-national
		"New Zealand": nz, "Aotearoa": nz, "Aotearoa New Zealand": nz, "NZ": nz, "NZL": nz,

		// Asia
		"China": asia, "CN": asia, "People's Republic of China": asia,
		"Japan": asia, "JP": asia,
		"South Korea": asia, "Korea": asia, "Republic of Korea": asia, "KR": asia,
		"India": asia, "IN": asia,
		"Singapore": asia, "SG": asia,
		"Hong Kong": asia, "HK": asia,
		"Taiwan": asia, "TW": asia,
		"Thailand": asia, "TH": asia,
		"Vietnam": asia, "Viet Nam": asia, "VN": asia,
		"Malaysia": asia, "MY": asia,
		"Indonesia": asia, "ID": asia,
		"Philippines": asia, "PH": asia,

		// North America
		"United States": northAmerica, "United States of America": northAmerica,
		"USA": northAmerica, "US": northAmerica,
		"Canada": northAmerica, "CA": northAmerica,

		// Europe
		"United Kingdom": europe, "UK": europe, "GB": europe, "Great Britain": europe,
		"England": europe, "Scotland": europe, "Wales": europe, "Northern Ireland": europe,
		"Ireland": europe, "IE": europe,
		"Portugal": europe, "PT": europe,
		"Spain": europe, "España": europe, "ES": europe,
		"France": europe, "FR": europe,
		"Germany": europe, "Deutschland": europe, "DE": europe,
		"Italy": europe, "Italia": europe, "IT": europe,
		"Netherlands": europe, "The Netherlands": europe, "NL": europe,
		"Belgium": europe, "BE": europe,
		"Switzerland": europe, "CH": europe,
		"Austria": europe, "AT": europe,
		"Sweden": europe, "SE": europe,
		"Norway": europe, "NO": europe,
		"Denmark": europe, "DK": europe,
		"Finland": europe, "FI": europe,
		"Poland": europe, "PL": europe,
		"Greece": europe, "GR": europe,

		// Africa
		"South Africa": africa, "ZA": africa,
		"Nigeria": africa, "NG": africa,
		"Kenya": africa, "KE": africa,
		"Egypt": africa, "EG": africa,
		"Morocco": africa, "MA": africa,
		"Ghana": africa, "GH": africa,

		// Latin America
		"Brazil": latinAmerica, "Brasil": latinAmerica, "BR": latinAmerica,
		"Argentina": latinAmerica, "AR": latinAmerica,
		"Chile": latinAmerica, "CL": latinAmerica,
		"Mexico": latinAmerica, "México": latinAmerica, "MX": latinAmerica,
		"Colombia": latinAmerica, "CO": latinAmerica,
		"Peru": latinAmerica, "Perú": latinAmerica, "PE": latinAmerica,
		"Uruguay": latinAmerica, "UY": latinAmerica,
		"Paraguay": latinAmerica, "PY": latinAmerica,
		"Bolivia": latinAmerica, "BO": latinAmerica,
		"Ecuador": latinAmerica, "EC": latinAmerica,
		"Venezuela": latinAmerica, "VE": latinAmerica,
	}
}
