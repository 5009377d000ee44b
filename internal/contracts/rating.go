package contracts

import "time"

// Agency identifies a credit rating provider
type Agency string

const (
	AgencyMoodys Agency = "moodys"
	AgencySP     Agency = "sp"
	AgencyFitch  Agency = "fitch"
)

// Agencies returns all tracked agencies in display order
func Agencies() []Agency {
	return []Agency{AgencyMoodys, AgencySP, AgencyFitch}
}

// Outlook is an agency's forward-looking signal on a rating
type Outlook string

const (
	OutlookPositive   Outlook = "positive"
	OutlookNegative   Outlook = "negative"
	OutlookStable     Outlook = "stable"
	OutlookDeveloping Outlook = "developing"
)

// WatchlistStatus is the formal review designation of a rating
type WatchlistStatus string

const (
	WatchlistPositive WatchlistStatus = "Positive"
	WatchlistNegative WatchlistStatus = "Negative"
	WatchlistNone     WatchlistStatus = "Not on watchlist"
)

// RatingInfo is one agency's view of one issuer
type RatingInfo struct {
	CurrentRating       string          `json:"currentRating"`
	RatingDate          time.Time       `json:"ratingDate"`
	Outlook             Outlook         `json:"outlook"`
	OutlookRevisionDate time.Time       `json:"outlookRevisionDate"`
	WatchlistStatus     WatchlistStatus `json:"watchlistStatus"`
	WatchlistEntryDate  *time.Time      `json:"watchlistEntryDate,omitempty"` // nil: 워치리스트 미등재
}

// OnWatchlist reports whether the agency has the rating under review
func (r RatingInfo) OnWatchlist() bool {
	return r.WatchlistStatus != "" && r.WatchlistStatus != WatchlistNone
}

// WatchlistConsistent reports whether status and entry date agree.
// The pair is not enforced at construction; this is a diagnostic only.
func (r RatingInfo) WatchlistConsistent() bool {
	return r.OnWatchlist() == (r.WatchlistEntryDate != nil)
}

// Issuer is a rated entity with one RatingInfo per agency
// ⭐ SSOT: 발행사 레코드 구조는 여기서만 정의
type Issuer struct {
	ID       string `json:"id"`
	ISIN     string `json:"isin"`
	Name     string `json:"name"`
	Region   Region `json:"region"`
	Sector   Sector `json:"sector"`
	Industry string `json:"industry"`

	Moodys RatingInfo `json:"moodys"`
	SP     RatingInfo `json:"sp"`
	Fitch  RatingInfo `json:"fitch"`
}

// Rating returns the view of the given agency
func (i *Issuer) Rating(agency Agency) (RatingInfo, bool) {
	switch agency {
	case AgencyMoodys:
		return i.Moodys, true
	case AgencySP:
		return i.SP, true
	case AgencyFitch:
		return i.Fitch, true
	default:
		return RatingInfo{}, false
	}
}

// Ratings returns all three agency views in Agencies() order
func (i *Issuer) Ratings() [3]RatingInfo {
	return [3]RatingInfo{i.Moodys, i.SP, i.Fitch}
}

// Region is one of the macro-regions an issuer's country maps to
type Region string

const (
	RegionNorthAmerica     Region = "North America"
	RegionLatinAmerica     Region = "Latin America"
	RegionWesternEurope    Region = "Western Europe"
	RegionEasternEurope    Region = "Eastern Europe"
	RegionAsiaPacific      Region = "Asia-Pacific"
	RegionMiddleEast       Region = "Middle East"
	RegionAfrica           Region = "Africa"
	RegionSubSaharanAfrica Region = "Sub-Saharan Africa"
	RegionUnknown          Region = "Unknown"
)

// Sector is the normalized sector tag of an issuer
type Sector string

const (
	SectorFinancial          Sector = "financial"
	SectorEnergy             Sector = "energy"
	SectorUtilities          Sector = "utilities"
	SectorIndustrials        Sector = "industrials"
	SectorConsumer           Sector = "consumer"
	SectorHealthcare         Sector = "healthcare"
	SectorTechnology         Sector = "technology"
	SectorTelecommunications Sector = "telecommunications"
	SectorMaterials          Sector = "materials"
	SectorRealEstate         Sector = "real-estate"
	SectorSovereign          Sector = "sovereign"
	SectorQuasiSovereign     Sector = "quasi-sovereign"
	SectorUnclassified       Sector = "unclassified"
)

// Status is a traffic-light hint the renderer maps to a cell style
type Status string

const (
	StatusGreen Status = "green"
	StatusRed   Status = "red"
	StatusAmber Status = "amber"
	StatusNone  Status = "none"
)
