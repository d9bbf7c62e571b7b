// Package mockapi is an in-memory stand-in for the back-office API. It
// speaks the same envelopes, pagination, and error bodies as the real
// server, which makes it usable both as a dev fixture and in integration
// tests. It implements no business logic beyond what the client observes.
package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atelier/backoffice/internal/api"
	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/client"
	"github.com/atelier/backoffice/internal/domain/order"
)

const pageSize = 10

// Server holds the fixture state behind one mutex; contention is not a
// concern for a test fixture
type Server struct {
	logger *zap.Logger

	mu            sync.Mutex
	clients       map[int64]*client.Client
	recycled      map[int64]*client.Client
	cloths        map[int64]*catalog.Cloth
	orders        map[int64]*order.Order
	notifications map[int64]*api.Notification
	employees     []api.Employee
	cities        []api.City
	permissions   []string
	idempotency   map[string]*order.Order
	orderCloths   map[int64][]int64
	nextID        int64
}

// NewServer creates a seeded fixture server
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:        logger,
		clients:       make(map[int64]*client.Client),
		recycled:      make(map[int64]*client.Client),
		cloths:        make(map[int64]*catalog.Cloth),
		orders:        make(map[int64]*order.Order),
		notifications: make(map[int64]*api.Notification),
		idempotency:   make(map[string]*order.Order),
		orderCloths:   make(map[int64][]int64),
		nextID:        100,
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	s.clients[42] = &client.Client{
		ID: 42, FirstName: "Mona", LastName: "Hassan",
		NationalID: "29901011234567", Source: client.SourceReferral,
		Phones: []client.Phone{{Phone: "01000000000", Type: client.PhoneTypeMobile}},
	}
	s.clients[43] = &client.Client{ID: 43, Name: "Laila Omar", Source: client.SourceWalkIn}

	s.cloths[11] = &catalog.Cloth{
		ID: 11, Code: "GW-011", Name: "Evening gown", Status: catalog.ClothStatusReadyForRent,
		EntityType: catalog.EntityTypeBranch, EntityID: 3,
		Price: decimal.NewFromInt(500), Category: "dresses", SubCategory: "evening",
	}
	s.cloths[12] = &catalog.Cloth{
		ID: 12, Code: "WD-012", Name: "Wedding dress", Status: catalog.ClothStatusReadyForRent,
		EntityType: catalog.EntityTypeBranch, EntityID: 3,
		Price: decimal.NewFromInt(1200), Category: "dresses", SubCategory: "wedding",
	}
	s.cloths[13] = &catalog.Cloth{
		ID: 13, Code: "ST-013", Name: "Three-piece suit", Status: catalog.ClothStatusRented,
		EntityType: catalog.EntityTypeFactory, EntityID: 1,
		Price: decimal.NewFromInt(800), Category: "suits",
	}

	s.employees = []api.Employee{
		{ID: 7, Name: "Omar Farouk", Role: "sales", Active: true},
		{ID: 8, Name: "Sara Adel", Role: "tailor", Active: true},
	}
	s.cities = []api.City{
		{ID: 1, Name: "Cairo"},
		{ID: 2, Name: "Giza"},
		{ID: 3, Name: "Alexandria"},
	}
	s.permissions = []string{"orders.create", "orders.view", "clients.view", "clients.manage"}
	s.notifications[1] = &api.Notification{ID: 1, Title: "Order due", Body: "Order #9 returns today"}
}

// Engine builds the gin engine with every route registered under /api/v1
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	v1 := engine.Group("/api/v1")
	s.registerClients(v1)
	s.registerCloths(v1)
	s.registerOrders(v1)
	s.registerDirectory(v1)
	return engine
}

// Run serves the fixture on addr
func (s *Server) Run(addr string) error {
	s.logger.Info("Mock API listening", zap.String("addr", addr))
	return s.Engine().Run(addr)
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// page slices items into the wire pagination shape
func page[T any](c *gin.Context, items []T) gin.H {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if pageNum < 1 {
		pageNum = 1
	}
	total := len(items)
	start := (pageNum - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	totalPages := (total + pageSize - 1) / pageSize
	return gin.H{
		"data":         items[start:end],
		"current_page": pageNum,
		"total":        total,
		"total_pages":  totalPages,
	}
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func respondError(c *gin.Context, status int, message string, fieldErrors map[string][]string) {
	body := gin.H{"message": message}
	if len(fieldErrors) > 0 {
		body["errors"] = fieldErrors
	}
	c.JSON(status, body)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid identifier", nil)
		return 0, false
	}
	return id, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// asFloat reads a JSON number out of a generic map
func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
