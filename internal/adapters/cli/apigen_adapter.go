// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/ports/primary"
)

// ApiGenerationAdapter is a thin adapter that translates CLI operations to
// ApiGenerationService calls and prints the resulting reports.
type ApiGenerationAdapter struct {
	service primary.ApiGenerationService
	out     io.Writer
}

// NewApiGenerationAdapter creates a new ApiGenerationAdapter with the given service.
func NewApiGenerationAdapter(service primary.ApiGenerationService, out io.Writer) *ApiGenerationAdapter {
	return &ApiGenerationAdapter{
		service: service,
		out:     out,
	}
}

// Generate generates the API of one entity.
func (a *ApiGenerationAdapter) Generate(ctx context.Context, entity *models.EntityDefinition) error {
	report, err := a.service.GenerateCompleteAPI(ctx, entity)
	if report != nil {
		a.printReport(report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Generated API for %s\n", color.New(color.FgGreen).Sprint("✓"), entity.Name())
	return nil
}

// GenerateJSON generates every entity described in data.
func (a *ApiGenerationAdapter) GenerateJSON(ctx context.Context, data []byte) error {
	batch, err := a.service.GenerateFromJSON(ctx, data)
	if batch != nil {
		for _, report := range batch.Reports {
			a.printReport(report)
		}
		fmt.Fprintf(a.out, "%s Processed %d entities\n", a.statusMark(err), len(batch.Reports))
	}
	return err
}

// Delete removes the API of one entity.
func (a *ApiGenerationAdapter) Delete(ctx context.Context, name string) error {
	report, err := a.service.DeleteCompleteAPI(ctx, name)
	if report != nil {
		a.printReport(report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted API for %s\n", color.New(color.FgGreen).Sprint("✓"), report.Entity)
	return nil
}

// DeleteJSON removes every entity described in data.
func (a *ApiGenerationAdapter) DeleteJSON(ctx context.Context, data []byte) error {
	batch, err := a.service.DeleteFromJSON(ctx, data)
	if batch != nil {
		for _, report := range batch.Reports {
			a.printReport(report)
		}
		fmt.Fprintf(a.out, "%s Deleted %d entities\n", a.statusMark(err), len(batch.Reports))
	}
	return err
}

// Plan prints the files a generation would touch.
func (a *ApiGenerationAdapter) Plan(ctx context.Context, entities ...*models.EntityDefinition) error {
	for _, entity := range entities {
		report, err := a.service.Plan(ctx, entity)
		if err != nil {
			return fmt.Errorf("failed to plan %s: %w", entity.Name(), err)
		}
		a.printReport(report)
	}
	fmt.Fprintln(a.out, "Dry run: no files were written")
	return nil
}

// History lists recorded runs.
func (a *ApiGenerationAdapter) History(ctx context.Context, entity string) error {
	runs, err := a.service.History(ctx, entity)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-22s %-14s %-8s %-10s %s\n", "STARTED", "ENTITY", "SOURCE", "STATUS", "FILES")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, r := range runs {
		fmt.Fprintf(a.out, "%-22s %-14s %-8s %-10s %d\n", r.StartedAt, r.Entity, r.Source, r.Status, len(r.Artifacts))
		if r.Error != "" {
			fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgRed).Sprint("error:"), r.Error)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

func (a *ApiGenerationAdapter) printReport(report *primary.Report) {
	fmt.Fprintf(a.out, "\n%s\n", report.Entity)
	for _, artifact := range report.Artifacts {
		fmt.Fprintf(a.out, "  %s %-16s %s\n", operationLabel(artifact.Operation), artifact.Kind, artifact.Path)
	}
}

func (a *ApiGenerationAdapter) statusMark(err error) string {
	if err != nil {
		return color.New(color.FgRed).Sprint("✗")
	}
	return color.New(color.FgGreen).Sprint("✓")
}

func operationLabel(operation string) string {
	switch operation {
	case models.OperationCreated:
		return color.New(color.FgGreen).Sprint("CREATE ")
	case models.OperationUpdated:
		return color.New(color.FgYellow).Sprint("UPDATE ")
	case models.OperationDeleted:
		return color.New(color.FgRed).Sprint("DELETE ")
	case models.OperationPlanned:
		return color.New(color.FgCyan).Sprint("PLAN   ")
	}
	return color.New(color.FgBlue).Sprint("SKIP   ")
}
