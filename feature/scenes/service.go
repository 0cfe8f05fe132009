package scenes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"datajoin/core/cache"
	"datajoin/core/dataset"
	"datajoin/core/join"
	"datajoin/core/metrics"
	"datajoin/core/scene"
	"datajoin/core/storage"
	"datajoin/feature/scenes/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ExportPrefix is the storage folder scene snapshots are written to.
const ExportPrefix = "scenes/"

// ErrInvalidRequest wraps every validation failure of a join request.
var ErrInvalidRequest = errors.New("invalid request")

var sceneNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// Options tunes the service.
type Options struct {
	// Strict is the default duplicate key policy.
	Strict bool
	// CacheTTL is how long loaded scenes stay in memory.
	CacheTTL time.Duration
	// Timeout bounds each join once it starts running.
	Timeout time.Duration
	// DatasetPrefix is prepended to dataset names that lack it.
	DatasetPrefix string
	// Metrics records join outcomes. Nil disables recording.
	Metrics *metrics.Recorder
	// TracerProvider creates the join spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Service runs data joins against stored scenes.
type Service struct {
	store     Store
	client    storage.Client
	bucket    string
	logger    *zap.Logger
	opts      Options
	cache     *cache.Cache[*scene.Scene]
	scheduler *Scheduler[*models.JoinReport]
	tracer    trace.Tracer
}

// NewService creates a new scenes service.
func NewService(store Store, client storage.Client, bucket string, logger *zap.Logger, opts Options) *Service {
	if opts.DatasetPrefix == "" {
		opts.DatasetPrefix = "datasets/"
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Service{
		store:     store,
		client:    client,
		bucket:    bucket,
		logger:    logger,
		opts:      opts,
		cache:     cache.New[*scene.Scene](opts.CacheTTL),
		scheduler: NewScheduler[*models.JoinReport](opts.Timeout),
		tracer:    tp.Tracer("datajoin/feature/scenes"),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// ValidateName checks that name can be used as a scene name.
func ValidateName(name string) error {
	if !sceneNamePattern.MatchString(name) {
		return invalid("scene name %q must be 1-128 letters, digits, '.', '_' or '-'", name)
	}
	return nil
}

// load returns the live scene, reading through the cache.
func (s *Service) load(ctx context.Context, name string) (*scene.Scene, error) {
	return s.cache.GetOrLoad(ctx, name, func(ctx context.Context) (*scene.Scene, error) {
		return s.store.Load(ctx, name)
	})
}

// loadOrNew returns the live scene, or a fresh one when none is stored.
func (s *Service) loadOrNew(ctx context.Context, name string) (*scene.Scene, error) {
	live, err := s.load(ctx, name)
	if errors.Is(err, ErrSceneNotFound) {
		return scene.New(name), nil
	}
	return live, err
}

// Get returns a copy of the named scene.
func (s *Service) Get(ctx context.Context, name string) (*scene.Scene, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	live, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return live.Snapshot(), nil
}

// List returns every stored scene.
func (s *Service) List(ctx context.Context) ([]models.SceneInfo, error) {
	return s.store.List(ctx)
}

// Delete removes the named scene. It is ordered with the scene's joins and
// requeued when a newer join supersedes it, so it is never dropped.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	remove := func(ctx context.Context) (*models.JoinReport, error) {
		err := s.store.Delete(ctx, name)
		// After the delete, so a Get that read the old scene cannot cache it
		s.cache.Invalidate(name)
		if err != nil {
			return nil, err
		}
		s.opts.Metrics.Forget(name)
		s.logger.Info("Scene deleted", zap.String("scene", name))
		return &models.JoinReport{Scene: name, Deleted: true}, nil
	}
	for {
		report, coalesced, err := s.scheduler.Schedule(ctx, name, remove)
		if err != nil {
			return err
		}
		if !coalesced || report.Deleted {
			return nil
		}
	}
}

// Export writes the scene's JSON snapshot to scenes/<name>.json.
func (s *Service) Export(ctx context.Context, name string) (*models.ExportResult, error) {
	snap, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene %s: %w", name, err)
	}

	object := ExportPrefix + name + ".json"
	if err := storage.PutBytes(ctx, s.client, s.bucket, object, data, "application/json"); err != nil {
		return nil, err
	}
	s.logger.Info("Scene exported", zap.String("scene", name), zap.String("object", object), zap.Int("bytes", len(data)))
	return &models.ExportResult{Scene: name, Bucket: s.bucket, Object: object, Bytes: len(data)}, nil
}

// Join reconciles the request's records with the scene's elements.
// Concurrent joins on one scene run one at a time, and only the newest
// waiting join runs; dry runs are never queued.
func (s *Service) Join(ctx context.Context, name string, req models.JoinRequest) (*models.JoinReport, error) {
	ctx, span := s.tracer.Start(ctx, "scenes.Join", trace.WithAttributes(
		attribute.String("scene", name),
		attribute.Bool("dry_run", req.DryRun),
	))
	defer span.End()

	report, err := s.join(ctx, name, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("entered", report.Summary.Entered),
		attribute.Int("updated", report.Summary.Updating),
		attribute.Int("exited", report.Summary.Exited),
		attribute.Bool("coalesced", report.Coalesced),
	)
	return report, nil
}

func (s *Service) join(ctx context.Context, name string, req models.JoinRequest) (*models.JoinReport, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	sel, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	items, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		return s.plan(ctx, name, req, sel, items)
	}

	report, coalesced, err := s.scheduler.Schedule(ctx, name, func(ctx context.Context) (*models.JoinReport, error) {
		return s.apply(ctx, name, req, sel, items)
	})
	if err != nil {
		return nil, err
	}
	if coalesced {
		copied := *report
		copied.Coalesced = true
		return &copied, nil
	}
	return report, nil
}

func (s *Service) validate(req models.JoinRequest) (scene.Selector, error) {
	sel, err := scene.ParseSelector(req.Selector)
	if err != nil {
		return sel, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if len(req.Items) > 0 && req.Dataset != "" {
		return sel, invalid("items and dataset are mutually exclusive")
	}
	if !req.SkipEnter {
		if sel.ID != "" {
			return sel, invalid("id selectors can only be used with skip_enter")
		}
		if req.Tag == "" && sel.Tag == "" {
			return sel, invalid("tag is required when the selector has none")
		}
		if req.Tag != "" && sel.Tag != "" && req.Tag != sel.Tag {
			return sel, invalid("tag %q does not match selector %q", req.Tag, req.Selector)
		}
	}
	return sel, nil
}

func (s *Service) resolveItems(ctx context.Context, req models.JoinRequest) ([]dataset.Record, error) {
	items := req.Items
	if req.Dataset != "" {
		if s.client == nil {
			return nil, errors.New("object storage is not configured")
		}
		object := req.Dataset
		if !strings.HasPrefix(object, s.opts.DatasetPrefix) {
			object = path.Join(s.opts.DatasetPrefix, object)
		}
		if _, err := dataset.FormatOf(object); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		loaded, err := dataset.Load(ctx, s.client, s.bucket, object)
		if err != nil {
			return nil, err
		}
		items = loaded
	}
	if err := dataset.RequireField(items, req.Key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return items, nil
}

// buildJoin wires a join over target for req.
func (s *Service) buildJoin(target *scene.Scene, req models.JoinRequest, sel scene.Selector) (*join.Join[dataset.Record], error) {
	var parent join.Node
	if req.Parent != "" {
		p, err := target.Find(req.Parent)
		if err != nil {
			return nil, fmt.Errorf("%w: parent: %w", ErrInvalidRequest, err)
		}
		parent = p
	}

	strict := s.opts.Strict
	if req.Strict != nil {
		strict = *req.Strict
	}

	tag := req.Tag
	if tag == "" {
		tag = sel.Tag
	}
	classes := slices.Clone(sel.Classes)
	for _, c := range req.Classes {
		if !slices.Contains(classes, c) {
			classes = append(classes, c)
		}
	}

	j := &join.Join[dataset.Record]{
		Host:     target,
		Parent:   parent,
		Selector: sel.String(),
		Key:      dataset.FieldKey(req.Key),
		Strict:   strict,
		Factory: func(d join.Datum[dataset.Record]) (join.Node, error) {
			return scene.NewElement(tag, classes...), nil
		},
		Hooks: join.Hooks[dataset.Record]{
			BeforeEnter: func([]join.Datum[dataset.Record]) bool { return !req.SkipEnter },
			BeforeExit:  func([]join.Orphan) bool { return !req.SkipExit },
			AfterExit:   join.RemoveExiting(target),
			OnJoinEnd: func(bound []join.Binding[dataset.Record]) {
				if len(req.Attrs) == 0 && req.Text == "" {
					return
				}
				for _, b := range bound {
					target.Update(b.Node.(*scene.Element), func(e *scene.Element) {
						for attr, field := range req.Attrs {
							e.Attrs[attr] = b.Item.String(field)
						}
						if req.Text != "" {
							e.Text = b.Item.String(req.Text)
						}
					})
				}
			},
		},
	}
	return j, nil
}

func (s *Service) plan(ctx context.Context, name string, req models.JoinRequest, sel scene.Selector, items []dataset.Record) (*models.JoinReport, error) {
	start := time.Now()
	live, err := s.loadOrNew(ctx, name)
	if err != nil {
		return nil, err
	}
	work := live.Snapshot()

	j, err := s.buildJoin(work, req, sel)
	if err != nil {
		return nil, err
	}
	result, err := j.Plan(items)
	if err != nil {
		s.observe(name, err, join.Summary{}, start)
		return nil, err
	}
	s.opts.Metrics.ObserveJoin(name, metrics.StatusDryRun, result.Summary(), time.Since(start))

	report := newReport(name, result, work.Len())
	report.DryRun = true
	for _, d := range result.Entering {
		report.Entered = append(report.Entered, d.Key)
	}
	for _, o := range result.Exiting {
		report.Exited = append(report.Exited, o.Key)
	}
	return report, nil
}

func (s *Service) apply(ctx context.Context, name string, req models.JoinRequest, sel scene.Selector, items []dataset.Record) (*models.JoinReport, error) {
	start := time.Now()
	live, err := s.loadOrNew(ctx, name)
	if err != nil {
		return nil, err
	}

	// Join on a copy so a failed join or save leaves the live scene untouched
	work := live.Snapshot()
	j, err := s.buildJoin(work, req, sel)
	if err != nil {
		return nil, err
	}

	result, err := j.Reconcile(items)
	if err != nil {
		s.observe(name, err, join.Summary{}, start)
		return nil, err
	}
	if err := s.store.Save(ctx, work); err != nil {
		s.observe(name, err, result.Summary(), start)
		return nil, fmt.Errorf("failed to save scene %s: %w", name, err)
	}
	s.cache.Set(name, work)

	summary := result.Summary()
	s.observe(name, nil, summary, start)

	report := newReport(name, result, work.Len())
	for _, b := range result.Entered {
		report.Entered = append(report.Entered, b.Key)
	}
	if !result.ExitSkipped {
		for _, o := range result.Exiting {
			report.Exited = append(report.Exited, o.Key)
		}
	}

	s.logger.Info("Scene joined",
		zap.String("scene", name),
		zap.Int("items", summary.Items),
		zap.Int("entered", summary.Entered),
		zap.Int("updated", summary.Updating),
		zap.Int("exited", summary.Exited),
		zap.Int("dropped", summary.Dropped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (s *Service) observe(name string, err error, summary join.Summary, start time.Time) {
	status := metrics.StatusOK
	var dup *join.InvalidKeyError
	switch {
	case errors.As(err, &dup):
		status = metrics.StatusConflict
	case err != nil:
		status = metrics.StatusError
		s.logger.Error("Scene join failed", zap.String("scene", name), zap.Error(err))
	}
	s.opts.Metrics.ObserveJoin(name, status, summary, time.Since(start))
}

func newReport(name string, result *join.Result[dataset.Record], nodes int) *models.JoinReport {
	report := &models.JoinReport{
		Scene:   name,
		Summary: result.Summary(),
		Entered: []string{},
		Updated: make([]string, 0, len(result.Updating)),
		Exited:  []string{},
		Dropped: make([]string, 0, len(result.Dropped)),
		Nodes:   nodes,
	}
	for _, b := range result.Updating {
		report.Updated = append(report.Updated, b.Key)
	}
	for _, d := range result.Dropped {
		report.Dropped = append(report.Dropped, d.Key)
	}
	return report
}
