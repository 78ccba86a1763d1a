package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/api/middleware"
	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
	"github.com/cvmotors/dealership-system/internal/core/service"
)

type stubInventory struct {
	classifications []domain.Classification
	vehicles        map[string]*domain.Vehicle
	addErr          error
	added           []string
}

func (s *stubInventory) Classifications(context.Context) ([]domain.Classification, error) {
	return s.classifications, nil
}

func (s *stubInventory) AddClassification(_ context.Context, name string) (*domain.Classification, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = append(s.added, name)
	return &domain.Classification{ID: "cls_new", Name: name}, nil
}

func (s *stubInventory) VehiclesByClassification(_ context.Context, id string) ([]domain.Vehicle, string, error) {
	for _, cls := range s.classifications {
		if cls.ID == id {
			out := make([]domain.Vehicle, 0)
			for _, v := range s.vehicles {
				if v.ClassificationID == id {
					out = append(out, *v)
				}
			}
			return out, cls.Name, nil
		}
	}
	return nil, "", domain.ErrClassificationNotFound
}

func (s *stubInventory) VehicleDetail(_ context.Context, id string) (*domain.Vehicle, error) {
	if v, ok := s.vehicles[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, domain.ErrVehicleNotFound
}

func (s *stubInventory) AddVehicle(_ context.Context, input ports.AddVehicleInput) (*domain.Vehicle, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &domain.Vehicle{ID: "veh_new", Make: input.Make, Model: input.Model}, nil
}

func (s *stubInventory) UpdateVehicle(_ context.Context, id string, input ports.AddVehicleInput) (*domain.Vehicle, error) {
	if _, ok := s.vehicles[id]; !ok {
		return nil, domain.ErrVehicleNotFound
	}
	return &domain.Vehicle{ID: id, Make: input.Make, Model: input.Model}, nil
}

type invHarness struct {
	e       *echo.Echo
	handler *InventoryHandler
	flash   *memFlashStore
	stub    *stubInventory
}

func newInvHarness() *invHarness {
	stub := &stubInventory{
		classifications: []domain.Classification{
			{ID: "cls_1", Name: "SUV"},
			{ID: "cls_2", Name: "Sedan"},
		},
		vehicles: map[string]*domain.Vehicle{
			"veh_1": {ID: "veh_1", Make: "GM", Model: "Hummer", Year: 2021, ClassificationID: "cls_1"},
		},
	}
	e := echo.New()
	e.Validator = NewValidator()
	return &invHarness{
		e:       e,
		handler: NewInventoryHandler(stub),
		flash:   newMemFlashStore(),
		stub:    stub,
	}
}

func (h *invHarness) do(t *testing.T, req *http.Request, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	// The resolver provides the flash plumbing; accounts and issuer go
	// unused on anonymous inventory requests.
	issuer := service.NewIssuer(newMemSessionStore(), "test-secret", 0, 0, false, zerolog.Nop())
	resolver := middleware.NewResolver(&stubAccountService{}, issuer, h.flash, false, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)
	if err := resolver.Middleware()(fn)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestByClassification_ReturnsVehiclesWithTitle(t *testing.T) {
	h := newInvHarness()
	req := httptest.NewRequest(http.MethodGet, "/inv/type/cls_1", nil)
	req.AddCookie(&http.Cookie{Name: middleware.FlashCookie, Value: "inv_1"})

	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)
	c.SetParamNames("classificationId")
	c.SetParamValues("cls_1")

	issuer := service.NewIssuer(newMemSessionStore(), "test-secret", 0, 0, false, zerolog.Nop())
	resolver := middleware.NewResolver(&stubAccountService{}, issuer, h.flash, false, zerolog.Nop())
	if err := resolver.Middleware()(h.handler.ByClassification)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"title":"SUV vehicles"`) || !strings.Contains(body, "Hummer") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestByClassification_UnknownRedirectsHome(t *testing.T) {
	h := newInvHarness()
	req := httptest.NewRequest(http.MethodGet, "/inv/type/nope", nil)
	req.AddCookie(&http.Cookie{Name: middleware.FlashCookie, Value: "inv_2"})

	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)
	c.SetParamNames("classificationId")
	c.SetParamValues("nope")

	issuer := service.NewIssuer(newMemSessionStore(), "test-secret", 0, 0, false, zerolog.Nop())
	resolver := middleware.NewResolver(&stubAccountService{}, issuer, h.flash, false, zerolog.Nop())
	if err := resolver.Middleware()(h.handler.ByClassification)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	redirectTarget(t, rec, "/")
	if msgs := h.flash.byClient["inv_2"]["info"]; len(msgs) != 1 {
		t.Fatalf("expected an info notice, got %v", msgs)
	}
}

func TestAddClassification_Success(t *testing.T) {
	h := newInvHarness()
	rec := h.do(t, jsonReq(http.MethodPost, "/inv/classifications", `{"name":"Truck"}`, "inv_3"), h.handler.AddClassification)

	redirectTarget(t, rec, managementPath)
	if len(h.stub.added) != 1 || h.stub.added[0] != "Truck" {
		t.Fatalf("expected classification to be created, got %v", h.stub.added)
	}
	if msgs := h.flash.byClient["inv_3"]["success"]; len(msgs) != 1 {
		t.Fatalf("expected a success notice, got %v", msgs)
	}
}

func TestAddClassification_RejectsNonAlphanumeric(t *testing.T) {
	h := newInvHarness()
	rec := h.do(t, jsonReq(http.MethodPost, "/inv/classifications", `{"name":"Bad Name!"}`, "inv_4"), h.handler.AddClassification)

	redirectTarget(t, rec, managementPath)
	if len(h.stub.added) != 0 {
		t.Fatalf("invalid name must not be created")
	}
	if msgs := h.flash.byClient["inv_4"]["error"]; len(msgs) != 1 {
		t.Fatalf("expected a validation error notice, got %v", msgs)
	}
}

func TestAddClassification_Duplicate(t *testing.T) {
	h := newInvHarness()
	h.stub.addErr = domain.ErrDuplicateClassification

	rec := h.do(t, jsonReq(http.MethodPost, "/inv/classifications", `{"name":"SUV"}`, "inv_5"), h.handler.AddClassification)

	redirectTarget(t, rec, managementPath)
	msgs := h.flash.byClient["inv_5"]["error"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "already exists") {
		t.Fatalf("expected duplicate notice, got %v", msgs)
	}
}

func TestAddVehicle_UnknownClassification(t *testing.T) {
	h := newInvHarness()
	h.stub.addErr = domain.ErrClassificationNotFound

	body := `{"make":"GM","model":"Hummer","year":2021,"description":"big","price":60000,"classification_id":"nope"}`
	rec := h.do(t, jsonReq(http.MethodPost, "/inv/vehicles", body, "inv_6"), h.handler.AddVehicle)

	redirectTarget(t, rec, managementPath)
	msgs := h.flash.byClient["inv_6"]["error"]
	if len(msgs) != 1 || msgs[0] != "Unknown classification." {
		t.Fatalf("expected unknown-classification notice, got %v", msgs)
	}
}
