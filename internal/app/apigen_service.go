package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/generator"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
	"github.com/example/apigen/internal/ports/primary"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/scaffold"
)

// Run sources.
const (
	SourceFields = "fields"
	SourceJSON   = "json"
	SourceDelete = "delete"
)

// ApiGenerationDeps holds the collaborators of ApiGenerationServiceImpl.
type ApiGenerationDeps struct {
	Generators []generator.Generator
	Files      secondary.FileSystem
	Layout     generator.Layout
	Routes     *RouteFile

	// AuthProvider is nil when policy registration is disabled.
	AuthProvider *AuthProviderRegistrar

	Ledger secondary.ArtifactLedger
	Logger *zap.Logger
	Clock  func() time.Time
	NewID  func() string
}

// ApiGenerationServiceImpl implements the ApiGenerationService interface.
type ApiGenerationServiceImpl struct {
	generators   []generator.Generator
	files        secondary.FileSystem
	layout       generator.Layout
	routes       *RouteFile
	authProvider *AuthProviderRegistrar
	ledger       secondary.ArtifactLedger
	parser       *scaffold.JSONParser
	logger       *zap.Logger
	clock        func() time.Time
	newID        func() string
}

// NewApiGenerationService creates a new ApiGenerationService with injected dependencies.
func NewApiGenerationService(deps ApiGenerationDeps) *ApiGenerationServiceImpl {
	s := &ApiGenerationServiceImpl{
		generators:   deps.Generators,
		files:        deps.Files,
		layout:       deps.Layout,
		routes:       deps.Routes,
		authProvider: deps.AuthProvider,
		ledger:       deps.Ledger,
		parser:       scaffold.NewJSONParser(),
		logger:       deps.Logger,
		clock:        deps.Clock,
		newID:        deps.NewID,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// GenerateCompleteAPI generates every artifact of an entity built from a fields string.
func (s *ApiGenerationServiceImpl) GenerateCompleteAPI(ctx context.Context, entity *models.EntityDefinition) (*primary.Report, error) {
	return s.generate(ctx, entity, SourceFields)
}

// GenerateFromJSON generates every entity described in data.
func (s *ApiGenerationServiceImpl) GenerateFromJSON(ctx context.Context, data []byte) (*primary.BatchReport, error) {
	entities, err := s.parser.ParseJSONToEntities(data)
	if err != nil {
		return nil, err
	}

	batch := &primary.BatchReport{}
	var errs []error
	for _, entity := range entities {
		report, err := s.generate(ctx, entity, SourceJSON)
		batch.Reports = append(batch.Reports, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", entity.Name(), err))
		}
	}
	return batch, errors.Join(errs...)
}

func (s *ApiGenerationServiceImpl) generate(ctx context.Context, entity *models.EntityDefinition, source string) (*primary.Report, error) {
	report := &primary.Report{RunID: s.newID(), Entity: entity.Name()}
	log := s.logger.With(zap.String("entity", entity.Name()), zap.String("run", report.RunID))
	s.startRun(ctx, report, source)

	steps := s.registrations(ctx, entity.Name())
	for _, g := range s.generators {
		if !g.Supports(entity) {
			log.Debug("generator does not apply", zap.String("type", g.Type()))
			continue
		}
		steps = append(steps, step{kind: g.Type(), run: func() ([]models.Artifact, error) {
			result, err := g.Generate(ctx, entity)
			if err != nil {
				return nil, err
			}
			return result.Artifacts, nil
		}})
	}

	for _, st := range steps {
		log.Debug("generating", zap.String("type", st.kind))
		artifacts, err := st.run()
		s.record(ctx, report, artifacts...)
		if err != nil {
			err = apperrors.GenerationFailed(st.kind, err)
			log.Error("generation failed", zap.String("type", st.kind), zap.Error(err))
			s.finishRun(ctx, report, err)
			return report, err
		}
	}

	log.Info("api generated",
		zap.Int("created", report.Count(models.OperationCreated)),
		zap.Int("updated", report.Count(models.OperationUpdated)),
		zap.Int("skipped", report.Count(models.OperationSkipped)))
	s.finishRun(ctx, report, nil)
	return report, nil
}

// step is one unit of a generation run.
type step struct {
	kind string
	run  func() ([]models.Artifact, error)
}

// registrations returns the route and policy registration steps that precede generators.
func (s *ApiGenerationServiceImpl) registrations(ctx context.Context, name string) []step {
	single := func(register func(context.Context, string) (models.Artifact, error)) func() ([]models.Artifact, error) {
		return func() ([]models.Artifact, error) {
			a, err := register(ctx, name)
			if err != nil {
				return nil, err
			}
			return []models.Artifact{a}, nil
		}
	}

	steps := []step{{kind: "route", run: single(s.routes.Add)}}
	if s.authProvider != nil {
		steps = append(steps, step{kind: "auth_provider", run: single(s.authProvider.Register)})
	}
	return steps
}

// DeleteCompleteAPI removes every file generated for name along with its registrations.
func (s *ApiGenerationServiceImpl) DeleteCompleteAPI(ctx context.Context, name string) (*primary.Report, error) {
	name = naming.Capitalize(name)
	if err := models.ValidateEntityName(name); err != nil {
		return nil, err
	}

	report := &primary.Report{RunID: s.newID(), Entity: name}
	log := s.logger.With(zap.String("entity", name), zap.String("run", report.RunID))

	err := s.deleteArtifacts(ctx, name, report)
	if err != nil {
		log.Error("deletion failed", zap.Error(err))
	} else {
		log.Info("api deleted", zap.Int("deleted", report.Count(models.OperationDeleted)))
	}

	// Rows of earlier runs go first; the deletion run itself stays in the history.
	if purgeErr := s.ledger.DeleteByEntity(ctx, name); purgeErr != nil {
		log.Warn("failed to purge ledger", zap.Error(purgeErr))
	}
	s.startRun(ctx, report, SourceDelete)
	for i := range report.Artifacts {
		s.recordOne(ctx, report, report.Artifacts[i])
	}
	s.finishRun(ctx, report, err)

	return report, err
}

func (s *ApiGenerationServiceImpl) deleteArtifacts(ctx context.Context, name string, report *primary.Report) error {
	// Pivot migrations are only known through the ledger, so read it before removing anything.
	pivots := s.trackedPivots(ctx, name)

	for _, a := range s.layout.Artifacts(name) {
		if err := s.remove(ctx, report, a.Kind, a.Path); err != nil {
			return err
		}
	}

	migrations, err := s.files.Glob(ctx, s.layout.MigrationGlob(naming.TableName(name)))
	if err != nil {
		return fmt.Errorf("failed to find migrations: %w", err)
	}
	for _, p := range migrations {
		if err := s.remove(ctx, report, "migration", p); err != nil {
			return err
		}
	}

	for _, p := range pivots {
		if err := s.remove(ctx, report, "pivot_migration", p); err != nil {
			return err
		}
	}

	route, err := s.routes.Remove(ctx, name)
	if err != nil {
		return err
	}
	report.Artifacts = append(report.Artifacts, route)

	if s.authProvider != nil {
		provider, err := s.authProvider.Unregister(ctx, name)
		if err != nil {
			return err
		}
		report.Artifacts = append(report.Artifacts, provider)
	}
	return nil
}

func (s *ApiGenerationServiceImpl) remove(ctx context.Context, report *primary.Report, kind, p string) error {
	op, err := removeOptional(ctx, s.files, p)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	report.Artifacts = append(report.Artifacts, models.Artifact{Kind: kind, Path: p, Operation: op})
	return nil
}

// trackedPivots returns the pivot migrations an entity's earlier runs created.
func (s *ApiGenerationServiceImpl) trackedPivots(ctx context.Context, name string) []string {
	records, err := s.ledger.ListByEntity(ctx, name)
	if err != nil {
		s.logger.Warn("failed to read ledger, pivot migrations are kept", zap.String("entity", name), zap.Error(err))
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	for _, r := range records {
		if r.Kind != "pivot_migration" || r.Operation != models.OperationCreated || seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		paths = append(paths, r.Path)
	}
	return paths
}

// DeleteFromJSON deletes every entity described in data.
func (s *ApiGenerationServiceImpl) DeleteFromJSON(ctx context.Context, data []byte) (*primary.BatchReport, error) {
	entities, err := s.parser.ParseJSONToEntities(data)
	if err != nil {
		return nil, err
	}

	batch := &primary.BatchReport{}
	var errs []error
	for _, entity := range entities {
		report, err := s.DeleteCompleteAPI(ctx, entity.Name())
		batch.Reports = append(batch.Reports, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", entity.Name(), err))
		}
	}
	return batch, errors.Join(errs...)
}

// Plan lists the files a generation would touch. Nothing is written or recorded.
func (s *ApiGenerationServiceImpl) Plan(ctx context.Context, entity *models.EntityDefinition) (*primary.Report, error) {
	report := &primary.Report{Entity: entity.Name()}
	planned := func(kind, p string) {
		report.Artifacts = append(report.Artifacts, models.Artifact{Kind: kind, Path: p, Operation: models.OperationPlanned})
	}

	planned("route", s.routes.Path())
	if s.authProvider != nil {
		planned("auth_provider", s.authProvider.Path())
	}
	for _, g := range s.generators {
		if !g.Supports(entity) {
			continue
		}
		p := g.OutputPath(entity)
		if r, ok := g.(generator.PathResolver); ok {
			resolved, err := r.ResolvePath(ctx, entity)
			if err != nil {
				return nil, apperrors.GenerationFailed(g.Type(), err)
			}
			p = resolved
		}
		planned(g.Type(), p)
	}
	return report, nil
}

// History lists recorded runs with their artifacts, oldest first.
func (s *ApiGenerationServiceImpl) History(ctx context.Context, entity string) ([]*primary.Run, error) {
	if entity != "" {
		entity = naming.Capitalize(entity)
	}

	records, err := s.ledger.ListRuns(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	artifacts, err := s.ledger.ListByEntity(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	byRun := make(map[string][]models.Artifact)
	for _, a := range artifacts {
		byRun[a.RunID] = append(byRun[a.RunID], models.Artifact{Kind: a.Kind, Path: a.Path, Operation: a.Operation})
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = &primary.Run{
			ID:         r.ID,
			Entity:     r.Entity,
			Source:     r.Source,
			Status:     r.Status,
			Error:      r.Error,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Artifacts:  byRun[r.ID],
		}
	}
	return runs, nil
}

// Ledger helpers. Ledger failures are logged and never fail a run.

func (s *ApiGenerationServiceImpl) startRun(ctx context.Context, report *primary.Report, source string) {
	err := s.ledger.StartRun(ctx, &secondary.RunRecord{
		ID:        report.RunID,
		Entity:    report.Entity,
		Source:    source,
		Status:    secondary.RunStatusRunning,
		StartedAt: s.clock().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("failed to record run", zap.String("run", report.RunID), zap.Error(err))
	}
}

func (s *ApiGenerationServiceImpl) finishRun(ctx context.Context, report *primary.Report, runErr error) {
	status, msg := secondary.RunStatusSucceeded, ""
	if runErr != nil {
		status, msg = secondary.RunStatusFailed, runErr.Error()
	}
	if err := s.ledger.FinishRun(ctx, report.RunID, status, msg); err != nil {
		s.logger.Warn("failed to finish run", zap.String("run", report.RunID), zap.Error(err))
	}
}

func (s *ApiGenerationServiceImpl) record(ctx context.Context, report *primary.Report, artifacts ...models.Artifact) {
	for _, a := range artifacts {
		report.Artifacts = append(report.Artifacts, a)
		s.recordOne(ctx, report, a)
	}
}

func (s *ApiGenerationServiceImpl) recordOne(ctx context.Context, report *primary.Report, a models.Artifact) {
	err := s.ledger.Record(ctx, &secondary.ArtifactRecord{
		RunID:     report.RunID,
		Entity:    report.Entity,
		Kind:      a.Kind,
		Path:      a.Path,
		Operation: a.Operation,
	})
	if err != nil {
		s.logger.Warn("failed to record artifact", zap.String("path", a.Path), zap.Error(err))
	}
}

// Ensure ApiGenerationServiceImpl implements the interface.
var _ primary.ApiGenerationService = (*ApiGenerationServiceImpl)(nil)
