package bridge

// BondRecord is one raw bond row as served by the terminal bridge.
// Every field is free text; the normalizer owns interpretation and defaults.
type BondRecord struct {
	ISIN     string `json:"isin"`
	Issuer   string `json:"issuer"`
	Country  string `json:"country"`
	Region   string `json:"region,omitempty"` // 샘플 데이터에만 존재, 무시됨
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	MoodysRating      string `json:"moodys_rating"`
	MoodysRatingDate  string `json:"moodys_rating_date"`
	MoodysOutlook     string `json:"moodys_outlook"`
	MoodysOutlookDate string `json:"moodys_outlook_date"`
	MoodysWatch       string `json:"moodys_watch"`
	MoodysWatchDate   string `json:"moodys_watch_date,omitempty"`

	SPRating      string `json:"sp_rating"`
	SPRatingDate  string `json:"sp_rating_date"`
	SPOutlook     string `json:"sp_outlook"`
	SPOutlookDate string `json:"sp_outlook_date"`
	SPWatch       string `json:"sp_watch"`
	SPWatchDate   string `json:"sp_watch_date,omitempty"`

	FitchRating      string `json:"fitch_rating"`
	FitchRatingDate  string `json:"fitch_rating_date"`
	FitchOutlook     string `json:"fitch_outlook"`
	FitchOutlookDate string `json:"fitch_outlook_date"`
	FitchWatch       string `json:"fitch_watch"`
	FitchWatchDate   string `json:"fitch_watch_date,omitempty"`
}

// AgencyFields is one agency's raw field group of a BondRecord
type AgencyFields struct {
	Rating      string
	RatingDate  string
	Outlook     string
	OutlookDate string
	Watch       string
	WatchDate   string
}

// Moodys returns the Moody's field group
func (b *BondRecord) Moodys() AgencyFields {
	return AgencyFields{b.MoodysRating, b.MoodysRatingDate, b.MoodysOutlook, b.MoodysOutlookDate, b.MoodysWatch, b.MoodysWatchDate}
}

// SP returns the S&P field group
func (b *BondRecord) SP() AgencyFields {
	return AgencyFields{b.SPRating, b.SPRatingDate, b.SPOutlook, b.SPOutlookDate, b.SPWatch, b.SPWatchDate}
}

// Fitch returns the Fitch field group
func (b *BondRecord) Fitch() AgencyFields {
	return AgencyFields{b.FitchRating, b.FitchRatingDate, b.FitchOutlook, b.FitchOutlookDate, b.FitchWatch, b.FitchWatchDate}
}

// Bridge response modes
const (
	ModeLive  = "live"
	ModeDemo  = "demo"
	ModeError = "error"
)

// BondsResponse is the payload of GET /api/bonds
type BondsResponse struct {
	Bonds     []BondRecord `json:"bonds"`
	Count     int          `json:"count"`
	Timestamp string       `json:"timestamp"`
	Mode      string       `json:"mode"`
	Error     string       `json:"error,omitempty"`
}

// HealthStatus is the payload of GET /api/health
type HealthStatus struct {
	Status             string `json:"status"`
	Timestamp          string `json:"timestamp"`
	BloombergConnected bool   `json:"bloomberg_connected"`
}

// ConnectResult is the payload of POST /api/connect
type ConnectResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// errorPayload is the bridge's generic error body
type errorPayload struct {
	Error string `json:"error"`
}
