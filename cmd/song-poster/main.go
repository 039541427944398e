// song-poster renders static artifacts from the fight song dataset: a tempo
// versus duration chart suitable for printing, and a PDF summary of the
// conference aggregates that back the radar and rose views.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/jung-kurt/gofpdf"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/vizengine"
)

var cli struct {
	OutDir  string `default:"out" help:"Output directory."`
	Dataset string `type:"path" help:"Local dataset (JSON). Defaults to the embedded copy."`
	Format  string `default:"png" enum:"png,svg,pdf" help:"Chart image format."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("song-poster"),
		kong.Description("Render printable charts and a PDF report from the fight song dataset."),
	)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)

	schools, err := songdata.Load(songdata.LoadOptions{Path: cli.Dataset})
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	if err := os.MkdirAll(cli.OutDir, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	chartPath := filepath.Join(cli.OutDir, "tempo-duration."+cli.Format)
	if err := renderChart(schools, chartPath); err != nil {
		log.Fatalf("render chart: %v", err)
	}
	log.Printf("Wrote %s", chartPath)

	reportPath := filepath.Join(cli.OutDir, "conference-report.pdf")
	if err := renderReport(schools, reportPath); err != nil {
		log.Fatalf("render report: %v", err)
	}
	log.Printf("Wrote %s", reportPath)
}

func renderChart(schools []*songdata.School, path string) error {
	p := plot.New()
	p.Title.Text = "College Fight Songs"
	p.X.Label.Text = "tempo (bpm)"
	p.Y.Label.Text = "duration (s)"

	for _, conf := range songdata.Conferences {
		var pts plotter.XYs
		for _, s := range schools {
			if s.Conference != conf {
				continue
			}
			pts = append(pts, plotter.XY{X: s.BPM, Y: s.Duration})
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("scatter for %s: %w", conf, err)
		}
		sc.GlyphStyle.Color = vizengine.ConferenceColor(conf)
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add(conf, sc)
	}
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

func renderReport(schools []*songdata.School, path string) error {
	stats := songdata.Aggregate(schools)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "College Fight Songs: Conference Report")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%d schools across %d conferences", len(schools), len(stats)))
	pdf.Ln(12)

	headers := []string{"Conference", "Schools", "Avg BPM", "Avg Dur (s)", "Avg Tropes", "Fight %", "Rah %"}
	widths := []float64{38, 20, 24, 28, 26, 22, 22}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, cs := range stats {
		cells := []string{
			cs.Conference,
			fmt.Sprintf("%d", cs.Count),
			fmt.Sprintf("%.1f", cs.AvgBPM),
			fmt.Sprintf("%.1f", cs.AvgDur),
			fmt.Sprintf("%.1f", cs.AvgTropes),
			fmt.Sprintf("%.0f", cs.FightRate*100),
			fmt.Sprintf("%.0f", cs.RahRate*100),
		}
		for i, cell := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 8, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Rates are the share of schools in the conference whose song uses the trope.")

	return pdf.OutputFileAndClose(path)
}
