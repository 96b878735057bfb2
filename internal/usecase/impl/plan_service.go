package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"planmap/internal/domain/entity"
	apperrors "planmap/internal/domain/errors"
	"planmap/internal/domain/repository"
	"planmap/internal/domain/service"
	"planmap/internal/errors"
	"planmap/internal/geomap"
	"planmap/internal/plan"
	"planmap/internal/usecase"

	"github.com/google/uuid"
)

// snapshotDocument is the persisted form of one planning session. Only the
// request and the raw solver payload are stored; the canonical result and
// its geometry are recomputed on read so a normalization fix applies to
// old snapshots too.
type snapshotDocument struct {
	Request     *entity.PlanRequest `json:"request"`
	RawResponse json.RawMessage     `json:"raw_response,omitempty"`
	CaptureRef  string              `json:"capture_ref,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type planService struct {
	snapshots repository.SnapshotRepository
	captures  repository.CaptureArchive
	matrix    service.MatrixProvider
	solver    service.SolverClient
	logger    *slog.Logger
}

// NewPlanService creates the plan usecase implementation.
func NewPlanService(
	snapshots repository.SnapshotRepository,
	captures repository.CaptureArchive,
	matrix service.MatrixProvider,
	solver service.SolverClient,
	logger *slog.Logger,
) usecase.PlanUsecase {
	return &planService{
		snapshots: snapshots,
		captures:  captures,
		matrix:    matrix,
		solver:    solver,
		logger:    logger,
	}
}

func (s *planService) SavePlan(ctx context.Context, key string, input *usecase.SavePlanInput) (*usecase.PlanView, error) {
	request, err := buildRequest(key, input)
	if err != nil {
		return nil, err
	}
	if err := plan.ValidateRequest(request); err != nil {
		return nil, err
	}

	doc := &snapshotDocument{Request: request, UpdatedAt: time.Now().UTC()}
	if err := s.saveSnapshot(ctx, key, doc); err != nil {
		return nil, err
	}

	s.logger.Info("plan saved",
		slog.String("key", key),
		slog.Int("orders", len(request.Orders)),
		slog.Int("couriers", len(request.Couriers)))

	return s.view(key, doc)
}

func (s *planService) GetPlan(ctx context.Context, key string) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	return s.view(key, doc)
}

func (s *planService) ListPlans(ctx context.Context) ([]string, error) {
	keys, err := s.snapshots.ListKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshot keys")
	}

	return keys, nil
}

func (s *planService) BuildMatrix(ctx context.Context, key string) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	matrix, err := s.matrix.TravelTimeMatrix(ctx, doc.Request.Points())
	if err != nil {
		return nil, apperrors.ErrMatrixUnavailable.WithDetails(err.Error())
	}

	doc.Request.Matrix = matrix
	doc.UpdatedAt = time.Now().UTC()
	if err := s.saveSnapshot(ctx, key, doc); err != nil {
		return nil, err
	}

	return s.view(key, doc)
}

func (s *planService) Solve(ctx context.Context, key string) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(doc.Request.Matrix) == 0 {
		if _, err := s.BuildMatrix(ctx, key); err != nil {
			return nil, err
		}
		if doc, err = s.loadSnapshot(ctx, key); err != nil {
			return nil, err
		}
	}

	payload, err := s.solver.Solve(ctx, plan.BuildSolverInput(doc.Request))
	if err != nil {
		return nil, apperrors.ErrSolverUnavailable.WithDetails(err.Error())
	}

	return s.applyPayload(ctx, key, doc, payload, "")
}

func (s *planService) ApplyResult(ctx context.Context, key string, payload []byte) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, apperrors.ErrCaptureParse.WithDetails(err.Error())
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, apperrors.ErrPayloadNotObject
	}

	captureRef, err := s.archive(ctx, key, payload)
	if err != nil {
		return nil, err
	}

	return s.applyPayload(ctx, key, doc, obj, captureRef)
}

func (s *planService) Replay(ctx context.Context, key string, raw []byte) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	capture, err := parseReplayCapture(raw)
	if err != nil {
		return nil, err
	}

	captureRef, err := s.archive(ctx, key, raw)
	if err != nil {
		return nil, err
	}

	return s.applyCapture(ctx, key, doc, capture, captureRef)
}

func (s *planService) ReplayArchived(ctx context.Context, key string, ref string) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.captures == nil {
		return nil, apperrors.ErrCaptureNotFound.WithDetails("capture archive is not configured")
	}

	raw, err := s.captures.Load(ctx, ref)
	if err != nil {
		return nil, apperrors.ErrCaptureNotFound.WithDetails(err.Error())
	}
	if len(raw) == 0 {
		return nil, apperrors.ErrCaptureNotFound
	}

	capture, err := parseReplayCapture(raw)
	if err != nil {
		return nil, err
	}

	// Already archived; reuse the reference instead of storing a copy.
	return s.applyCapture(ctx, key, doc, capture, ref)
}

func parseReplayCapture(raw []byte) (*plan.Capture, error) {
	capture, err := plan.ParseCapture(string(raw))
	if err != nil {
		return nil, err
	}
	if capture.Response == nil {
		return nil, apperrors.ErrCaptureParse.WithDetails("capture carries no response block")
	}

	return capture, nil
}

// applyCapture reconciles a parsed capture. The capture is authoritative:
// when it embeds the request the solver actually saw, normalization runs
// against that request instead of the stored plan, and the capture's
// actual-state coordinates win over whatever the request declares.
func (s *planService) applyCapture(ctx context.Context, key string, doc *snapshotDocument, capture *plan.Capture, captureRef string) (*usecase.PlanView, error) {
	if capture.Request != nil {
		if embedded, ok := plan.RequestFromCapture(key, capture.Request); ok {
			// The solver input has no depot row and may omit the start
			// timestamp; those stay with the stored plan.
			if embedded.Depot == nil {
				embedded.Depot = doc.Request.Depot
			}
			if embedded.StartTime.IsZero() {
				embedded.StartTime = doc.Request.StartTime
			}
			doc.Request = embedded
		}
	}

	for _, order := range doc.Request.Orders {
		if coords, ok := capture.ActualCoords[order.ExternalID]; ok {
			order.Lat, order.Lon = coords[0], coords[1]
		}
	}

	return s.applyPayload(ctx, key, doc, capture.Response, captureRef)
}

func (s *planService) ClearResult(ctx context.Context, key string) (*usecase.PlanView, error) {
	doc, err := s.loadSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(doc.RawResponse) == 0 {
		return nil, apperrors.ErrNoResult
	}

	doc.RawResponse = nil
	doc.CaptureRef = ""
	doc.UpdatedAt = time.Now().UTC()
	for _, point := range doc.Request.Points() {
		point.Derived.Reset()
	}
	if err := s.saveSnapshot(ctx, key, doc); err != nil {
		return nil, err
	}

	return s.view(key, doc)
}

func (s *planService) DeletePlan(ctx context.Context, key string) error {
	return s.snapshots.Delete(ctx, key)
}

// applyPayload runs the normalization pipeline, persists the raw payload
// with the snapshot and returns the refreshed view.
func (s *planService) applyPayload(ctx context.Context, key string, doc *snapshotDocument, payload map[string]any, captureRef string) (*usecase.PlanView, error) {
	outcome, err := plan.Apply(doc.Request, payload)
	if err != nil {
		return nil, err
	}
	for _, warning := range outcome.Warnings {
		s.logger.Warn("response normalization", slog.String("key", key), slog.String("detail", warning))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal solver payload")
	}
	doc.RawResponse = raw
	if captureRef != "" {
		doc.CaptureRef = captureRef
	}
	doc.UpdatedAt = time.Now().UTC()
	if err := s.saveSnapshot(ctx, key, doc); err != nil {
		return nil, err
	}

	return s.viewWithOutcome(key, doc, outcome), nil
}

// view rebuilds the outbound view, re-normalizing the stored raw payload
// when one exists.
func (s *planService) view(key string, doc *snapshotDocument) (*usecase.PlanView, error) {
	if len(doc.RawResponse) == 0 {
		return s.viewWithOutcome(key, doc, nil), nil
	}

	var decoded any
	if err := json.Unmarshal(doc.RawResponse, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode stored solver payload")
	}
	outcome, err := plan.Apply(doc.Request, decoded)
	if err != nil {
		return nil, err
	}

	return s.viewWithOutcome(key, doc, outcome), nil
}

func (s *planService) viewWithOutcome(key string, doc *snapshotDocument, outcome *plan.Outcome) *usecase.PlanView {
	request := doc.Request
	view := &usecase.PlanView{
		Key:       key,
		StartTime: request.StartTime.UTC().Format(time.RFC3339),
		Depot:     request.Depot,
		Orders:    request.Orders,
		Couriers:  request.Couriers,
		Matrix:    request.Matrix,

		CaptureRef: doc.CaptureRef,
	}

	placement := geomap.Decluster(request.Points())
	view.Clusters = placement.Clusters

	if outcome != nil {
		view.Result = outcome.Result
		view.Metrics = outcome.Result.Metrics
		view.Warnings = outcome.Warnings
		view.Segments = geomap.BuildSegments(request, outcome.Result, placement)
	}

	return view
}

func (s *planService) loadSnapshot(ctx context.Context, key string) (*snapshotDocument, error) {
	raw, err := s.snapshots.Find(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}

		return nil, errors.Wrap(err, "failed to load snapshot")
	}

	var doc snapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	if doc.Request == nil {
		return nil, apperrors.ErrPlanNotFound
	}

	return &doc, nil
}

func (s *planService) saveSnapshot(ctx context.Context, key string, doc *snapshotDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	return s.snapshots.Save(ctx, key, raw)
}

func (s *planService) archive(ctx context.Context, key string, raw []byte) (string, error) {
	if s.captures == nil {
		return "", nil
	}
	name, err := s.captures.Store(ctx, key, raw)
	if err != nil {
		// Archiving is best-effort; the normalization still proceeds.
		s.logger.Warn("capture archive failed", slog.String("key", key), slog.Any("error", err))

		return "", nil
	}

	return name, nil
}

// buildRequest turns the inbound document into a plan request, assigning
// sequence numbers in matrix order and filling weight defaults.
func buildRequest(key string, input *usecase.SavePlanInput) (*entity.PlanRequest, error) {
	if input.Depot == nil {
		return nil, apperrors.ErrNoDepot
	}

	startTime := time.Now().UTC()
	if input.StartTime != "" {
		parsed, ok := plan.Instant(input.StartTime)
		if !ok {
			return nil, apperrors.ErrValidationFailed.WithDetails("start_time_utc is not a valid instant")
		}
		startTime = parsed
	}

	request := &entity.PlanRequest{
		Key:       key,
		StartTime: startTime,
		Depot:     buildPoint(input.Depot, entity.KindDepot, 0),
		Weights:   entity.DefaultWeights,
	}
	for i := range input.Orders {
		request.Orders = append(request.Orders, buildPoint(&input.Orders[i], entity.KindOrder, i+1))
	}
	for _, courier := range input.Couriers {
		request.Couriers = append(request.Couriers, entity.CourierSpec{
			ID:                 courier.CourierID,
			Capacity:           courier.Capacity,
			AvailableOffsetMin: courier.AvailableOffsetMin,
		})
	}
	if weights := input.Weights; weights != nil {
		if weights.Cert != nil {
			request.Weights.Cert = *weights.Cert
		}
		if weights.C2E != nil {
			request.Weights.C2E = *weights.C2E
		}
		if weights.Skip != nil {
			request.Weights.Skip = *weights.Skip
		}
	}

	return request, nil
}

func buildPoint(input *usecase.PlanPointInput, kind entity.PointKind, seq int) *entity.Point {
	return &entity.Point{
		InternalID: uuid.New(),
		ExternalID: input.OrderID,
		Kind:       kind,
		Lat:        input.Lat,
		Lon:        input.Lon,
		Boxes:      input.Boxes,
		CreatedAt:  input.CreatedAt,
		ReadyAt:    input.ReadyAt,
		Seq:        seq,
	}
}
