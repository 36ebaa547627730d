package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"datahealth-web/internal/models"

	"github.com/urfave/cli/v3"
	"github.com/xuri/excelize/v2"
)

const (
	firstPartnerID   = 10000
	duplicatedRows   = 10
	badEmail         = "invalid_email_format_missing_at_symbol"
	badVAT           = "123"
	missingEmailRate = 0.05
	badEmailRate     = 0.02
	badVATRate       = 0.03
)

var (
	prefixes   = []string{"Alpha", "Beta", "Gamma", "Delta", "Omega", "Blue", "Red", "Green", "Global", "Tech", "Smart", "Future", "Rapid", "Prime"}
	suffixes   = []string{"Solutions", "Systems", "Corp", "Logistics", "Consulting", "Group", "Holdings", "Soft", "Trade", "Industries"}
	legalForms = []string{"Kft.", "GmbH", "Inc.", "Ltd.", "Nyrt.", "Zrt.", "AG"}
	countries  = []string{"HU", "DE", "US", "AT", "FR", "GB"}
)

// partner is one generated row, laid out as models.RequiredColumns.
// A nil Email leaves the cell empty.
type partner struct {
	ID      int
	Company string
	Country string
	Email   *string
	VAT     string
}

type stats struct {
	Duplicates    int
	MissingEmails int
	BadEmails     int
	BadVATs       int
}

func main() {
	cmd := &cli.Command{
		Name:  "generate_sample_data",
		Usage: "write a partner workbook with injected data quality errors",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "rows",
				Value: 500,
				Usage: "number of generated partners before duplicates are appended",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "test_big_data.xlsx",
				Usage:   "path of the generated workbook",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "random seed, 0 picks one from the clock",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rows := int(cmd.Int("rows"))
			if rows < 1 {
				return fmt.Errorf("--rows must be positive, got %d", rows)
			}
			seed := cmd.Int("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			fmt.Printf("Generating data (%d rows)...\n", rows)
			partners, st := generate(rand.New(rand.NewSource(seed)), rows)
			fmt.Printf(" -> Added %d duplicate rows.\n", st.Duplicates)
			fmt.Printf(" -> Removed %d email addresses.\n", st.MissingEmails)
			fmt.Printf(" -> Corrupted %d email formats.\n", st.BadEmails)
			fmt.Printf(" -> Corrupted %d VAT numbers.\n", st.BadVATs)

			output := cmd.String("output")
			if err := writeWorkbook(output, partners); err != nil {
				return err
			}

			fmt.Printf("✓ Sample file created: %s (%d rows)\n", output, len(partners))
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generate(rnd *rand.Rand, rows int) ([]partner, stats) {
	var st stats

	partners := make([]partner, 0, rows+duplicatedRows)
	for i := 0; i < rows; i++ {
		country := pick(rnd, countries)
		company := fmt.Sprintf("%s %s %s", pick(rnd, prefixes), pick(rnd, suffixes), pick(rnd, legalForms))
		email := companyEmail(company, country)
		partners = append(partners, partner{
			ID:      firstPartnerID + i,
			Company: company,
			Country: country,
			Email:   &email,
			VAT:     vatNumber(rnd, country),
		})
	}

	// Duplicate IDs: the first rows are appended again
	st.Duplicates = duplicatedRows
	if st.Duplicates > rows {
		st.Duplicates = rows
	}
	for _, p := range partners[:st.Duplicates] {
		email := *p.Email
		p.Email = &email
		partners = append(partners, p)
	}

	for i := range partners {
		if rnd.Float64() < missingEmailRate {
			partners[i].Email = nil
			st.MissingEmails++
		}
	}
	for i := range partners {
		if rnd.Float64() < badEmailRate {
			email := badEmail
			partners[i].Email = &email
			st.BadEmails++
		}
	}
	for i := range partners {
		if rnd.Float64() < badVATRate {
			partners[i].VAT = badVAT
			st.BadVATs++
		}
	}

	return partners, st
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.Intn(len(values))]
}

func companyEmail(company, country string) string {
	name := strings.ToLower(strings.SplitN(company, " ", 2)[0])
	domain := "com"
	if country != "US" {
		domain = strings.ToLower(country)
	}
	return fmt.Sprintf("info@%s.%s", name, domain)
}

func vatNumber(rnd *rand.Rand, country string) string {
	switch country {
	case "HU":
		return fmt.Sprintf("%d", 10000000+rnd.Intn(90000000))
	case "DE":
		return fmt.Sprintf("DE%d", 100000000+rnd.Intn(900000000))
	default:
		return fmt.Sprintf("%d", 100000+rnd.Intn(900000))
	}
}

func writeWorkbook(path string, partners []partner) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	header := make([]interface{}, len(models.RequiredColumns))
	for i, column := range models.RequiredColumns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range partners {
		row := []interface{}{p.ID, p.Company, p.Country, nil, p.VAT}
		if p.Email != nil {
			row[3] = *p.Email
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 32)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 18)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
