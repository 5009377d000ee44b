package normalizer

import "github.com/wonny/creditwatch/backend/internal/contracts"

// countryRegions maps ISO 3166-1 alpha-2 codes to macro-regions
var countryRegions = map[string]contracts.Region{
	// North America
	"US": contracts.RegionNorthAmerica,
	"CA": contracts.RegionNorthAmerica,
	"BM": contracts.RegionNorthAmerica,

	// Latin America
	"MX": contracts.RegionLatinAmerica,
	"BR": contracts.RegionLatinAmerica,
	"AR": contracts.RegionLatinAmerica,
	"CL": contracts.RegionLatinAmerica,
	"CO": contracts.RegionLatinAmerica,
	"PE": contracts.RegionLatinAmerica,
	"UY": contracts.RegionLatinAmerica,
	"PY": contracts.RegionLatinAmerica,
	"EC": contracts.RegionLatinAmerica,
	"VE": contracts.RegionLatinAmerica,
	"BO": contracts.RegionLatinAmerica,
	"PA": contracts.RegionLatinAmerica,
	"CR": contracts.RegionLatinAmerica,
	"DO": contracts.RegionLatinAmerica,
	"GT": contracts.RegionLatinAmerica,
	"JM": contracts.RegionLatinAmerica,
	"KY": contracts.RegionLatinAmerica,

	// Western Europe
	"GB": contracts.RegionWesternEurope,
	"IE": contracts.RegionWesternEurope,
	"FR": contracts.RegionWesternEurope,
	"DE": contracts.RegionWesternEurope,
	"NL": contracts.RegionWesternEurope,
	"BE": contracts.RegionWesternEurope,
	"LU": contracts.RegionWesternEurope,
	"CH": contracts.RegionWesternEurope,
	"AT": contracts.RegionWesternEurope,
	"IT": contracts.RegionWesternEurope,
	"ES": contracts.RegionWesternEurope,
	"PT": contracts.RegionWesternEurope,
	"GR": contracts.RegionWesternEurope,
	"DK": contracts.RegionWesternEurope,
	"SE": contracts.RegionWesternEurope,
	"NO": contracts.RegionWesternEurope,
	"FI": contracts.RegionWesternEurope,
	"IS": contracts.RegionWesternEurope,

	// Eastern Europe
	"PL": contracts.RegionEasternEurope,
	"CZ": contracts.RegionEasternEurope,
	"SK": contracts.RegionEasternEurope,
	"HU": contracts.RegionEasternEurope,
	"RO": contracts.RegionEasternEurope,
	"BG": contracts.RegionEasternEurope,
	"HR": contracts.RegionEasternEurope,
	"SI": contracts.RegionEasternEurope,
	"RS": contracts.RegionEasternEurope,
	"EE": contracts.RegionEasternEurope,
	"LV": contracts.RegionEasternEurope,
	"LT": contracts.RegionEasternEurope,
	"UA": contracts.RegionEasternEurope,
	"RU": contracts.RegionEasternEurope,
	"TR": contracts.RegionEasternEurope,
	"KZ": contracts.RegionEasternEurope,

	// Asia-Pacific
	"JP": contracts.RegionAsiaPacific,
	"CN": contracts.RegionAsiaPacific,
	"HK": contracts.RegionAsiaPacific,
	"KR": contracts.RegionAsiaPacific,
	"TW": contracts.RegionAsiaPacific,
	"SG": contracts.RegionAsiaPacific,
	"IN": contracts.RegionAsiaPacific,
	"ID": contracts.RegionAsiaPacific,
	"MY": contracts.RegionAsiaPacific,
	"TH": contracts.RegionAsiaPacific,
	"PH": contracts.RegionAsiaPacific,
	"VN": contracts.RegionAsiaPacific,
	"AU": contracts.RegionAsiaPacific,
	"NZ": contracts.RegionAsiaPacific,
	"MO": contracts.RegionAsiaPacific,
	"PK": contracts.RegionAsiaPacific,
	"LK": contracts.RegionAsiaPacific,

	// Middle East
	"AE": contracts.RegionMiddleEast,
	"SA": contracts.RegionMiddleEast,
	"QA": contracts.RegionMiddleEast,
	"KW": contracts.RegionMiddleEast,
	"BH": contracts.RegionMiddleEast,
	"OM": contracts.RegionMiddleEast,
	"IL": contracts.RegionMiddleEast,
	"JO": contracts.RegionMiddleEast,
	"LB": contracts.RegionMiddleEast,
	"IQ": contracts.RegionMiddleEast,

	// Africa (North)
	"EG": contracts.RegionAfrica,
	"MA": contracts.RegionAfrica,
	"DZ": contracts.RegionAfrica,
	"TN": contracts.RegionAfrica,
	"LY": contracts.RegionAfrica,

	// Sub-Saharan Africa
	"ZA": contracts.RegionSubSaharanAfrica,
	"NG": contracts.RegionSubSaharanAfrica,
	"KE": contracts.RegionSubSaharanAfrica,
	"GH": contracts.RegionSubSaharanAfrica,
	"CI": contracts.RegionSubSaharanAfrica,
	"SN": contracts.RegionSubSaharanAfrica,
	"AO": contracts.RegionSubSaharanAfrica,
	"ZM": contracts.RegionSubSaharanAfrica,
	"ET": contracts.RegionSubSaharanAfrica,
	"MU": contracts.RegionSubSaharanAfrica,
	"NA": contracts.RegionSubSaharanAfrica,
	"BW": contracts.RegionSubSaharanAfrica,
}

// sectorRule is one sector tag and the substrings that select it
type sectorRule struct {
	sector   contracts.Sector
	keywords []string
}

// sectorRules is evaluated in order; the first rule with a matching keyword wins.
// ⭐ SSOT: 섹터 우선순위는 이 순서가 유일한 기준
var sectorRules = []sectorRule{
	{contracts.SectorFinancial, []string{"financ", "bank", "insur", "capital market", "asset management"}},
	{contracts.SectorEnergy, []string{"energy", "oil", "gas", "petrol", "coal"}},
	{contracts.SectorUtilities, []string{"utilit", "electric", "power", "water"}},
	{contracts.SectorIndustrials, []string{"industr", "aerospace", "defense", "machinery", "transport", "airline", "construction"}},
	{contracts.SectorConsumer, []string{"consumer", "retail", "food", "beverage", "automobile", "apparel", "household"}},
	{contracts.SectorHealthcare, []string{"health", "pharma", "biotech", "medical"}},
	{contracts.SectorTechnology, []string{"technolog", "software", "semiconductor", "information"}},
	{contracts.SectorTelecommunications, []string{"telecom", "communication", "wireless", "media"}},
	{contracts.SectorMaterials, []string{"material", "chemical", "metal", "mining", "steel", "paper"}},
	{contracts.SectorRealEstate, []string{"real estate", "real-estate", "reit", "property"}},
	{contracts.SectorSovereign, []string{"sovereign", "government", "treasury"}},
	{contracts.SectorQuasiSovereign, []string{"quasi", "supranational", "agency", "municipal"}},
}
