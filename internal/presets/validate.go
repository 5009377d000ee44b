package presets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wonny/creditwatch/backend/internal/contracts"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// SupportedVersion is the only file version understood
const SupportedVersion = 1

// Validate checks all required constraints
// 실패 시 error 반환, 권장 위반은 warnings로
func Validate(file *File) ([]Warning, error) {
	var warnings []Warning

	if file.Version != SupportedVersion {
		return nil, ValidationError{"version", fmt.Sprintf("must be %d", SupportedVersion)}
	}

	seen := make(map[string]bool, len(file.Presets))
	for i, p := range file.Presets {
		field := fmt.Sprintf("presets[%d]", i)

		name := strings.ToLower(strings.TrimSpace(p.Name))
		if !namePattern.MatchString(name) {
			return warnings, ValidationError{field + ".name", "must match " + namePattern.String()}
		}
		if seen[name] {
			return warnings, ValidationError{field + ".name", fmt.Sprintf("duplicate preset %q", name)}
		}
		seen[name] = true

		if err := validateCriteria(field+".criteria", p.Criteria); err != nil {
			return warnings, err
		}

		c, err := p.Criteria.Criteria()
		if err != nil {
			return warnings, ValidationError{field + ".criteria", err.Error()}
		}
		if c.IsEmpty() {
			warnings = append(warnings, Warning{"EMPTY_CRITERIA", fmt.Sprintf("preset %q matches every issuer", name)})
		}
	}

	if len(file.Presets) == 0 {
		warnings = append(warnings, Warning{"NO_PRESETS", "file defines no presets"})
	}

	return warnings, nil
}

// validateCriteria rejects enum values that could never match a normalized issuer
func validateCriteria(field string, s CriteriaSpec) error {
	checks := []struct {
		name    string
		values  []string
		allowed map[string]bool
	}{
		{"regions", s.Regions, regionNames},
		{"sectors", s.Sectors, sectorNames},
		{"outlooks", s.Outlooks, outlookNames},
		{"watchlist_statuses", s.WatchlistStatuses, watchlistNames},
	}

	for _, check := range checks {
		for _, v := range check.values {
			if !check.allowed[v] {
				return ValidationError{fmt.Sprintf("%s.%s", field, check.name), fmt.Sprintf("unknown value %q", v)}
			}
		}
	}
	return nil
}

var regionNames = names(
	contracts.RegionNorthAmerica, contracts.RegionLatinAmerica, contracts.RegionWesternEurope,
	contracts.RegionEasternEurope, contracts.RegionAsiaPacific, contracts.RegionMiddleEast,
	contracts.RegionAfrica, contracts.RegionSubSaharanAfrica, contracts.RegionUnknown,
)

var sectorNames = names(
	contracts.SectorFinancial, contracts.SectorEnergy, contracts.SectorUtilities,
	contracts.SectorIndustrials, contracts.SectorConsumer, contracts.SectorHealthcare,
	contracts.SectorTechnology, contracts.SectorTelecommunications, contracts.SectorMaterials,
	contracts.SectorRealEstate, contracts.SectorSovereign, contracts.SectorQuasiSovereign,
	contracts.SectorUnclassified,
)

var outlookNames = names(
	contracts.OutlookPositive, contracts.OutlookNegative, contracts.OutlookStable, contracts.OutlookDeveloping,
)

var watchlistNames = names(
	contracts.WatchlistPositive, contracts.WatchlistNegative, contracts.WatchlistNone,
)

func names[T ~string](values ...T) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[string(v)] = true
	}
	return out
}
