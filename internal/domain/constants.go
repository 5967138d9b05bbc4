package domain

// Shipping Zones
const (
	ZoneLocal            Zone = "local"
	ZoneNorthIsland      Zone = "north_island"
	ZoneSouthIsland      Zone = "south_island"
	ZoneIntlAsia         Zone = "intl_asia"
	ZoneIntlNorthAmerica Zone = "intl_north_america"
	ZoneIntlEurope       Zone = "intl_europe"
	ZoneIntlAfrica       Zone = "intl_africa"
	ZoneIntlLatinAmerica Zone = "intl_latin_america"
)

// Zone Categories (select which free freight threshold applies)
const (
	CategoryLocal         ZoneCategory = "local"
	CategoryNational      ZoneCategory = "national"
	CategoryInternational ZoneCategory = "international"
)

// List Exports for API
var AllZones = []Zone{
	ZoneLocal,
	ZoneNorthIsland,
	ZoneSouthIsland,
	ZoneIntlAsia,
	ZoneIntlNorthAmerica,
	ZoneIntlEurope,
	ZoneIntlAfrica,
	ZoneIntlLatinAmerica,
}

var AllCategories = []ZoneCategory{
	CategoryLocal,
	CategoryNational,
	CategoryInternational,
}

// Defaults used when nothing is configured yet.
const (
	DefaultLocalZoneCity = "Tauranga"
	DefaultCurrency      = "NZD"
)
