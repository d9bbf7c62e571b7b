package mockapi

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/client"
	"github.com/atelier/backoffice/internal/domain/order"
)

func (s *Server) registerClients(rg *gin.RouterGroup) {
	rg.GET("/clients", s.listClients)
	rg.GET("/clients/recycle-bin", s.listRecycled)
	rg.GET("/clients/:id", s.getClient)
	rg.POST("/clients", s.createClient)
	rg.PUT("/clients/:id", s.updateClient)
	rg.DELETE("/clients/:id", s.deleteClient)
	rg.POST("/clients/:id/block", s.blockClient)
	rg.POST("/clients/:id/restore", s.restoreClient)
}

func (s *Server) registerCloths(rg *gin.RouterGroup) {
	rg.GET("/cloths", s.listCloths)
	rg.GET("/cloths/:id", s.getCloth)
	rg.POST("/cloths", s.createCloth)
	rg.PUT("/cloths/:id", s.updateCloth)
	rg.POST("/cloths/:id/status", s.updateClothStatus)
}

func (s *Server) registerOrders(rg *gin.RouterGroup) {
	rg.GET("/orders", s.listOrders)
	rg.GET("/orders/:id", s.getOrder)
	rg.POST("/orders", s.createOrder)
	rg.POST("/orders/:id/approve", s.approveOrder)
	rg.POST("/orders/:id/reject", s.rejectOrder)
}

func (s *Server) registerDirectory(rg *gin.RouterGroup) {
	rg.GET("/employees", s.listEmployees)
	rg.GET("/cities", s.listCities)
	rg.GET("/notifications", s.listNotifications)
	rg.POST("/notifications/:id/read", s.readNotification)
	rg.GET("/my-permissions", s.myPermissions)
}

func (s *Server) listClients(c *gin.Context) {
	s.mu.Lock()
	items := sortedValues(s.clients)
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) listRecycled(c *gin.Context) {
	s.mu.Lock()
	items := sortedValues(s.recycled)
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) getClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	found, exists := s.clients[id]
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Client not found", nil)
		return
	}
	respondData(c, found)
}

// clientBody is the wire shape both client create and update accept
type clientBody struct {
	Name       string         `json:"name"`
	NationalID string         `json:"national_id"`
	Source     string         `json:"source"`
	CityID     int64          `json:"city_id"`
	Address    string         `json:"address"`
	Phones     []client.Phone `json:"phones"`
	Notes      string         `json:"notes"`
}

func bindClientBody(c *gin.Context) (*clientBody, bool) {
	var body clientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed request body", nil)
		return nil, false
	}
	if len(body.NationalID) != 14 {
		respondError(c, http.StatusUnprocessableEntity, "Validation failed",
			map[string][]string{"national_id": {"The national id must be 14 digits."}})
		return nil, false
	}
	return &body, true
}

func (s *Server) createClient(c *gin.Context) {
	body, ok := bindClientBody(c)
	if !ok {
		return
	}

	s.mu.Lock()
	created := &client.Client{
		ID: s.id(), Name: body.Name, NationalID: body.NationalID,
		Source: client.Source(body.Source), Phones: body.Phones, Notes: body.Notes,
		Address: &client.Address{CityID: body.CityID, Address: body.Address},
	}
	s.clients[created.ID] = created
	s.mu.Unlock()
	respondData(c, created)
}

func (s *Server) updateClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	body, ok := bindClientBody(c)
	if !ok {
		return
	}

	s.mu.Lock()
	found, exists := s.clients[id]
	if exists {
		found.Name = body.Name
		found.NationalID = body.NationalID
		found.Source = client.Source(body.Source)
		found.Phones = body.Phones
		found.Notes = body.Notes
		found.Address = &client.Address{CityID: body.CityID, Address: body.Address}
	}
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Client not found", nil)
		return
	}
	respondData(c, found)
}

func (s *Server) deleteClient(c *gin.Context) {
	s.moveClient(c, s.clients, s.recycled, "Client not found")
}

func (s *Server) blockClient(c *gin.Context) {
	s.moveClient(c, s.clients, s.recycled, "Client not found")
}

func (s *Server) restoreClient(c *gin.Context) {
	s.moveClient(c, s.recycled, s.clients, "Client is not in the recycle bin")
}

func (s *Server) moveClient(c *gin.Context, from, to map[int64]*client.Client, missing string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	moved, exists := from[id]
	if exists {
		delete(from, id)
		to[id] = moved
	}
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, missing, nil)
		return
	}
	respondData(c, nil)
}

func (s *Server) listCloths(c *gin.Context) {
	name := c.Query("name")
	category := c.Query("category")
	subCategories := c.QueryArray("sub_categories[]")
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	status := c.Query("status")

	s.mu.Lock()
	var items []*catalog.Cloth
	for _, cloth := range sortedValues(s.cloths) {
		if name != "" && !containsFold(cloth.Name, name) {
			continue
		}
		if category != "" && cloth.Category != category {
			continue
		}
		if len(subCategories) > 0 && !contains(subCategories, cloth.SubCategory) {
			continue
		}
		if entityType != "" && cloth.EntityType.String() != entityType {
			continue
		}
		if entityID != "" && itoa(cloth.EntityID) != entityID {
			continue
		}
		if status != "" && cloth.Status.String() != status {
			continue
		}
		items = append(items, cloth)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) getCloth(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	found, exists := s.cloths[id]
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Cloth not found", nil)
		return
	}
	respondData(c, found)
}

func (s *Server) createCloth(c *gin.Context) {
	var body catalog.Cloth
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed request body", nil)
		return
	}
	if body.Name == "" {
		respondError(c, http.StatusUnprocessableEntity, "Validation failed",
			map[string][]string{"name": {"The name field is required."}})
		return
	}
	if body.Status == "" {
		body.Status = catalog.ClothStatusReadyForRent
	}

	s.mu.Lock()
	body.ID = s.id()
	s.cloths[body.ID] = &body
	s.mu.Unlock()
	respondData(c, &body)
}

func (s *Server) updateCloth(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body catalog.Cloth
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed request body", nil)
		return
	}

	s.mu.Lock()
	found, exists := s.cloths[id]
	if exists {
		body.ID = id
		*found = body
	}
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Cloth not found", nil)
		return
	}
	respondData(c, found)
}

func (s *Server) updateClothStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed request body", nil)
		return
	}
	status := catalog.ClothStatus(body.Status)
	if !status.IsValid() {
		respondError(c, http.StatusUnprocessableEntity, "Validation failed",
			map[string][]string{"status": {"The selected status is invalid."}})
		return
	}

	s.mu.Lock()
	found, exists := s.cloths[id]
	if exists {
		found.Status = status
	}
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Cloth not found", nil)
		return
	}
	respondData(c, found)
}

func (s *Server) listOrders(c *gin.Context) {
	s.mu.Lock()
	items := sortedValues(s.orders)
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	found, exists := s.orders[id]
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}
	respondData(c, found)
}

// createOrder checks just enough to exercise the client's error paths:
// items must exist and reference rentable cloths. A repeated idempotency
// key replays the original response instead of booking twice.
func (s *Server) createOrder(c *gin.Context) {
	var body struct {
		ExistingClient bool             `json:"existing_client"`
		ClientID       int64            `json:"client_id"`
		EntityType     string           `json:"entity_type"`
		EntityID       int64            `json:"entity_id"`
		Items          []map[string]any `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed request body", nil)
		return
	}

	key := c.GetHeader("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" {
		if previous, seen := s.idempotency[key]; seen {
			c.JSON(http.StatusOK, gin.H{"data": previous})
			return
		}
	}
	if len(body.Items) == 0 {
		respondError(c, http.StatusUnprocessableEntity, "Validation failed",
			map[string][]string{"items": {"Add at least one item."}})
		return
	}
	for _, item := range body.Items {
		clothID := int64(asFloat(item["cloth_id"]))
		cloth, exists := s.cloths[clothID]
		if !exists || cloth.Status != catalog.ClothStatusReadyForRent {
			respondError(c, http.StatusUnprocessableEntity, "Validation failed",
				map[string][]string{"items": {"The cloth is no longer available."}})
			return
		}
	}

	created := &order.Order{
		ID:       s.id(),
		Status:   order.StatusPending,
		ClientID: body.ClientID,
	}
	for _, item := range body.Items {
		clothID := int64(asFloat(item["cloth_id"]))
		s.cloths[clothID].Status = catalog.ClothStatusRented
		s.orderCloths[created.ID] = append(s.orderCloths[created.ID], clothID)
	}
	s.orders[created.ID] = created
	if key != "" {
		s.idempotency[key] = created
	}
	c.JSON(http.StatusOK, gin.H{"data": created})
}

func (s *Server) approveOrder(c *gin.Context) {
	s.transitionOrder(c, order.StatusApproved)
}

// rejectOrder cancels the order and puts its cloths back in the catalog
func (s *Server) rejectOrder(c *gin.Context) {
	s.transitionOrder(c, order.StatusRejected)
}

func (s *Server) transitionOrder(c *gin.Context, status order.Status) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	found, exists := s.orders[id]
	if exists {
		found.Status = status
		if status == order.StatusRejected {
			for _, clothID := range s.orderCloths[id] {
				if cloth, held := s.cloths[clothID]; held {
					cloth.Status = catalog.ClothStatusReadyForRent
				}
			}
			delete(s.orderCloths, id)
		}
	}
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}
	respondData(c, found)
}

func (s *Server) listEmployees(c *gin.Context) {
	s.mu.Lock()
	items := s.employees
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) listCities(c *gin.Context) {
	s.mu.Lock()
	items := s.cities
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) listNotifications(c *gin.Context) {
	s.mu.Lock()
	items := sortedValues(s.notifications)
	s.mu.Unlock()
	c.JSON(http.StatusOK, page(c, items))
}

func (s *Server) readNotification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	found, exists := s.notifications[id]
	if exists {
		found.Read = true
	}
	s.mu.Unlock()
	if !exists {
		respondError(c, http.StatusNotFound, "Notification not found", nil)
		return
	}
	respondData(c, nil)
}

func (s *Server) myPermissions(c *gin.Context) {
	s.mu.Lock()
	perms := append([]string(nil), s.permissions...)
	s.mu.Unlock()
	respondData(c, perms)
}

// sortedValues returns map values ordered by key for stable pagination
func sortedValues[V any](m map[int64]*V) []*V {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	values := make([]*V, 0, len(keys))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}
