package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/yijongkuk/mdmd/pkg/align"
	"github.com/yijongkuk/mdmd/pkg/cost"
	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geodata"
	"github.com/yijongkuk/mdmd/pkg/mesh"
	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/project"
	"github.com/yijongkuk/mdmd/pkg/projection"
	"github.com/yijongkuk/mdmd/pkg/scene"
	"github.com/yijongkuk/mdmd/pkg/validation"
)

// loadAndValidate loads the project and runs schema validation.
func loadAndValidate(projectPath string) (*project.Project, *validation.Report, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading project")
	}
	return p, validation.ValidateSchema(p), nil
}

// loadEnvelope loads a schema-valid project and derives its envelope. Schema
// findings are printed before returning errInvalid.
func loadEnvelope(w io.Writer, log *slog.Logger, projectPath string) (*project.Project, *envelope.Envelope, projection.Projector, error) {
	p, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, nil, projection.Projector{}, err
	}
	if !schemaReport.Valid {
		printValidationReport(w, schemaReport)
		return nil, nil, projection.Projector{}, errInvalid
	}
	env, proj, err := p.Envelope()
	if err != nil {
		return nil, nil, proj, errors.Wrap(err, "deriving envelope")
	}
	log.Debug("envelope derived", "project", p.Name, "floors", env.Floors, "footprint", env.FootprintArea)
	return p, env, proj, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runEnvelope(w io.Writer, log *slog.Logger, projectPath string, asJSON, asGeoJSON bool) error {
	_, env, proj, err := loadEnvelope(w, log, projectPath)
	if err != nil {
		return err
	}
	summary := envelope.Summarize(env)

	switch {
	case asGeoJSON:
		return writeJSON(w, geodata.EnvelopeFeatures(env, proj))
	case asJSON:
		return writeJSON(w, struct {
			Envelope *envelope.Envelope `json:"envelope"`
			Summary  envelope.Summary   `json:"summary"`
		}{env, summary})
	}
	printEnvelope(w, env, summary)
	return nil
}

func runCheck(w io.Writer, log *slog.Logger, projectPath string) error {
	p, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	// Envelope and placement checks need a well-formed project.
	if report.Valid {
		env, _, err := p.Envelope()
		if err != nil {
			return errors.Wrap(err, "deriving envelope")
		}
		report.Merge(validation.FromEnvelope(env))

		pls, err := p.Placements()
		if err != nil {
			return err
		}
		report.Merge(validation.ValidatePlacements(pls, env, placement.NewKernel(p.Grid)))
		log.Debug("placements checked", "count", len(pls))
	}

	printValidationReport(w, report)
	if !report.Valid {
		return errInvalid
	}
	return nil
}

func runAlign(w io.Writer, log *slog.Logger, projectPath string, asJSON bool) error {
	p, env, proj, err := loadEnvelope(w, log, projectPath)
	if err != nil {
		return err
	}
	obstacles, err := p.LoadObstacles(proj)
	if err != nil {
		return err
	}

	solver := align.NewSolver(obstacles.Buildings, obstacles.Roads, align.DefaultOptions())
	res := solver.Solve(env.Boundary)
	log.Debug("alignment solved", "obstacles", solver.Len(), "evaluated", res.Evaluated)

	if asJSON {
		return writeJSON(w, res)
	}
	fmt.Fprintf(w, "Obstacles: %s (%d polygons)\n", obstacles, solver.Len())
	printAlignResult(w, res)
	return nil
}

func runCost(w io.Writer, log *slog.Logger, projectPath string, rate float64, years int) error {
	p, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !schemaReport.Valid {
		printValidationReport(w, schemaReport)
		return errInvalid
	}

	items, err := p.Items()
	if err != nil {
		return err
	}
	report := cost.Estimate(items, cost.Options{InterestRate: rate, TermYears: years})
	log.Debug("cost estimated", "modules", report.Summary.Modules, "total", report.Total.Total)

	printCostReport(w, report)
	return nil
}

func runScene(w io.Writer, log *slog.Logger, projectPath string) error {
	p, env, _, err := loadEnvelope(w, log, projectPath)
	if err != nil {
		return err
	}
	items, err := p.Items()
	if err != nil {
		return err
	}

	graph := scene.Assemble(env, p.Grid, items)
	if report := scene.ValidateGraph(graph); !report.Valid {
		printValidationReport(os.Stderr, report)
		return errors.New("scene graph failed validation")
	}
	log.Debug("scene assembled", "entities", len(graph.Entities))
	return writeJSON(w, graph)
}

func runMesh(w io.Writer, log *slog.Logger, projectPath, output string, cells int) (err error) {
	_, env, _, err := loadEnvelope(w, log, projectPath)
	if err != nil {
		return err
	}

	out := w
	if output != "" {
		f, ferr := os.Create(output)
		if ferr != nil {
			return errors.Wrap(ferr, "creating mesh file")
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	n, err := mesh.WriteSTL(out, env, cells)
	if err != nil {
		return errors.Wrap(err, "writing mesh")
	}
	log.Info("mesh written", "facets", n, "output", output)
	if output != "" {
		fmt.Fprintf(w, "Wrote %d facets to %s\n", n, output)
	}
	return nil
}
