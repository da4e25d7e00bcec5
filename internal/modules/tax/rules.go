package tax

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultTaxYear is used when no year is configured.
const DefaultTaxYear = "2024-25"

//go:embed rules/*.yaml
var embeddedRules embed.FS

// Band is a marginal rate applying from From up to the next band's From.
type Band struct {
	From float64 `yaml:"from" json:"from"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// FirstTimeBuyerRules replace the standard bands for qualifying first-time buyers.
// MaxPrice of 0 means the relief is not capped by price.
type FirstTimeBuyerRules struct {
	MaxPrice float64 `yaml:"max_price" json:"max_price"`
	Bands    []Band  `yaml:"bands" json:"bands"`
}

// CompanyRules is a flat rate paid by companies on purchases above Threshold.
type CompanyRules struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	FlatRate  float64 `yaml:"flat_rate" json:"flat_rate"`
}

// TransactionRules are one jurisdiction's transaction-tax rules.
type TransactionRules struct {
	Name                 string               `yaml:"name" json:"name"`
	StandardBands        []Band               `yaml:"standard_bands" json:"standard_bands"`
	FirstTimeBuyer       *FirstTimeBuyerRules `yaml:"first_time_buyer" json:"first_time_buyer,omitempty"`
	AdditionalSurcharge  float64              `yaml:"additional_surcharge" json:"additional_surcharge"`
	Company              *CompanyRules        `yaml:"company" json:"company,omitempty"`
	NonResidentSurcharge float64              `yaml:"non_resident_surcharge" json:"non_resident_surcharge"`
}

// IncomeRules hold the income-tax allowance and band tables. Bands apply to taxable income,
// i.e. after the personal allowance.
type IncomeRules struct {
	PersonalAllowance     float64                         `yaml:"personal_allowance" json:"personal_allowance"`
	TaperThreshold        float64                         `yaml:"taper_threshold" json:"taper_threshold"`
	TaperRate             float64                         `yaml:"taper_rate" json:"taper_rate"`
	FinanceCostCreditRate float64                         `yaml:"finance_cost_credit_rate" json:"finance_cost_credit_rate"`
	Regions               map[domain.IncomeRegion][]Band `yaml:"regions" json:"regions"`
}

// CGTRules hold the residential capital gains rates.
type CGTRules struct {
	AnnualExemptAmount float64 `yaml:"annual_exempt_amount" json:"annual_exempt_amount"`
	BasicRateBand      float64 `yaml:"basic_rate_band" json:"basic_rate_band"`
	BasicRate          float64 `yaml:"basic_rate" json:"basic_rate"`
	HigherRate         float64 `yaml:"higher_rate" json:"higher_rate"`
}

// Rules is the complete rule set for one tax year.
type Rules struct {
	TaxYear     string                                   `yaml:"tax_year" json:"tax_year"`
	Starts      string                                   `yaml:"starts" json:"starts"`
	Transaction map[domain.Jurisdiction]TransactionRules `yaml:"transaction" json:"transaction"`
	Income      IncomeRules                              `yaml:"income" json:"income"`
	CGT         CGTRules                                 `yaml:"cgt" json:"cgt"`
}

// Validate fails loudly on any table a calculation could silently mis-handle.
func (r *Rules) Validate() error {
	if r.TaxYear == "" {
		return fmt.Errorf("%w: rule set has no tax_year", domain.ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", r.Starts); err != nil {
		return fmt.Errorf("%w: %s: starts %q is not a date", domain.ErrInvalidInput, r.TaxYear, r.Starts)
	}
	if len(r.Transaction) == 0 {
		return fmt.Errorf("%w: %s: no transaction tax rules", domain.ErrInvalidInput, r.TaxYear)
	}

	for j, tr := range r.Transaction {
		where := fmt.Sprintf("%s transaction/%s", r.TaxYear, j)
		if err := validateBands(where+"/standard", tr.StandardBands); err != nil {
			return err
		}
		if tr.FirstTimeBuyer != nil {
			if tr.FirstTimeBuyer.MaxPrice < 0 {
				return fmt.Errorf("%w: %s: negative first-time buyer cap", domain.ErrInvalidInput, where)
			}
			if err := validateBands(where+"/first_time_buyer", tr.FirstTimeBuyer.Bands); err != nil {
				return err
			}
		}
		if tr.Company != nil && (tr.Company.FlatRate < 0 || tr.Company.Threshold < 0) {
			return fmt.Errorf("%w: %s: negative company rule", domain.ErrInvalidInput, where)
		}
		if tr.AdditionalSurcharge < 0 || tr.NonResidentSurcharge < 0 {
			return fmt.Errorf("%w: %s: negative surcharge", domain.ErrInvalidInput, where)
		}
	}

	in := r.Income
	if in.PersonalAllowance < 0 || in.TaperThreshold < 0 || in.TaperRate < 0 || in.FinanceCostCreditRate < 0 {
		return fmt.Errorf("%w: %s: negative income allowance setting", domain.ErrInvalidInput, r.TaxYear)
	}
	if len(in.Regions) == 0 {
		return fmt.Errorf("%w: %s: no income tax regions", domain.ErrInvalidInput, r.TaxYear)
	}
	for region, bands := range in.Regions {
		if err := validateBands(fmt.Sprintf("%s income/%s", r.TaxYear, region), bands); err != nil {
			return err
		}
	}

	c := r.CGT
	if c.AnnualExemptAmount < 0 || c.BasicRateBand < 0 || c.BasicRate < 0 || c.HigherRate < 0 {
		return fmt.Errorf("%w: %s: negative capital gains setting", domain.ErrInvalidInput, r.TaxYear)
	}
	return nil
}

// validateBands requires a first band at 0, strictly increasing thresholds and non-negative rates.
func validateBands(where string, bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: %s: no bands", domain.ErrInvalidInput, where)
	}
	if bands[0].From != 0 {
		return fmt.Errorf("%w: %s: first band starts at %.2f, not 0", domain.ErrInvalidInput, where, bands[0].From)
	}
	for i, b := range bands {
		if b.Rate < 0 {
			return fmt.Errorf("%w: %s: band %d has negative rate", domain.ErrInvalidInput, where, i)
		}
		if i > 0 && b.From <= bands[i-1].From {
			return fmt.Errorf("%w: %s: band %d threshold %.2f not above %.2f",
				domain.ErrInvalidInput, where, i, b.From, bands[i-1].From)
		}
	}
	return nil
}

// RuleBook indexes rule sets by tax year.
type RuleBook map[string]*Rules

// Years lists the loaded tax years in ascending order.
func (b RuleBook) Years() []string {
	years := make([]string, 0, len(b))
	for y := range b {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// LoadRules decodes and validates every *.yaml file at the top of fsys.
// A later file for the same tax year replaces an earlier one.
func LoadRules(fsys fs.FS) (RuleBook, error) {
	book := RuleBook{}
	if err := loadInto(book, fsys, "."); err != nil {
		return nil, err
	}
	if len(book) == 0 {
		return nil, fmt.Errorf("%w: no tax rule files found", domain.ErrInvalidInput)
	}
	return book, nil
}

// DefaultRules returns the rule sets compiled into the binary.
func DefaultRules() (RuleBook, error) {
	book := RuleBook{}
	if err := loadInto(book, embeddedRules, "rules"); err != nil {
		return nil, err
	}
	return book, nil
}

// LoadRulesWithOverrides starts from the compiled-in rules and layers the files in dir on top,
// so a new tax year can be added by dropping a YAML file next to the binary.
func LoadRulesWithOverrides(dir string) (RuleBook, error) {
	book, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return book, nil
	}
	if err := loadInto(book, os.DirFS(dir), "."); err != nil {
		return nil, fmt.Errorf("failed to load tax rules from %s: %w", dir, err)
	}
	return book, nil
}

func loadInto(book RuleBook, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read tax rules directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		var rules Rules
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return fmt.Errorf("%w: failed to parse %s: %v", domain.ErrInvalidInput, name, err)
		}
		if err := rules.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		book[rules.TaxYear] = &rules
	}
	return nil
}
