package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"pricetrack/extractor"
	"pricetrack/models"
	"pricetrack/notifier"
	"pricetrack/repository"
	"pricetrack/scheduler"

	"github.com/gorilla/mux"
)

type Handlers struct {
	products    *repository.ProductRepository
	prefs       *repository.PreferenceRepository
	router      *extractor.Router
	notifier    *notifier.Notifier
	taskManager *scheduler.TaskManager
}

func NewHandlers(products *repository.ProductRepository, prefs *repository.PreferenceRepository, router *extractor.Router, n *notifier.Notifier) *Handlers {
	h := &Handlers{
		products: products,
		prefs:    prefs,
		router:   router,
		notifier: n,
	}

	h.taskManager = scheduler.NewTaskManager(h.performRefresh, 5)

	return h
}

// Close stops the async task workers
func (h *Handlers) Close() {
	if h.taskManager != nil {
		h.taskManager.Stop()
	}
}

// TrackProduct starts tracking a product URL. The page is scraped
// immediately; a fatal scrape is reported as a bad request, a page with no
// discoverable price is tracked as out of stock.
func (h *Handlers) TrackProduct(w http.ResponseWriter, r *http.Request) {
	var req models.TrackProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if req.Store != "" && !req.Store.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown store %q", req.Store))
		return
	}

	snapshot, err := h.router.ScrapeProduct(req.URL, req.Store)
	if err != nil {
		log.Printf("Failed to scrape %s: %v", req.URL, err)
		writeError(w, http.StatusBadRequest, "Could not fetch product data")
		return
	}

	store := req.Store
	if store == "" {
		store = extractor.InferStore(req.URL)
	}

	existing, err := h.products.GetProductByURL(req.URL, req.UserEmail)
	if err != nil {
		log.Printf("Failed to look up product: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to track product")
		return
	}

	if existing != nil {
		updated, err := h.products.UpdateProductPrice(existing.ID, snapshot)
		if err != nil {
			log.Printf("Failed to update product: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to track product")
			return
		}
		h.maybeSendInstantAlert(existing, existing.CurrentPrice, snapshot.Price)
		writeJSON(w, http.StatusOK, updated)
		return
	}

	product, err := h.products.CreateProduct(req.URL, store, req.UserEmail, snapshot)
	if err != nil {
		log.Printf("Failed to create product: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to track product")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// GetProducts returns tracked products, optionally filtered by user
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetProducts(r.URL.Query().Get("user_email"))
	if err != nil {
		log.Printf("Failed to get products: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get products")
		return
	}

	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns details for a specific product
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetProductByID(id)
	if err != nil {
		if err.Error() == "product not found" {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("Failed to get product: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct stops tracking a product
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(id); err != nil {
		log.Printf("Failed to delete product: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// RefreshProduct re-scrapes a product synchronously
func (h *Handlers) RefreshProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if _, err := h.performRefresh(id); err != nil {
		log.Printf("Failed to refresh product %d: %v", id, err)
		writeError(w, http.StatusBadRequest, "Could not fetch product data")
		return
	}

	product, err := h.products.GetProductByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load refreshed product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// RefreshProductAsync queues a background refresh and returns the task
func (h *Handlers) RefreshProductAsync(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if _, err := h.products.GetProductByID(id); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	task := h.taskManager.SubmitTask(id)
	writeJSON(w, http.StatusAccepted, task)
}

// GetTaskStatus returns the status of an async refresh task
func (h *Handlers) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	task, exists := h.taskManager.GetTask(taskID)
	if !exists {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// GetTaskStats returns task manager statistics
func (h *Handlers) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.taskManager.Stats())
}

// SetAlert sets the price alert threshold for a product
func (h *Handlers) SetAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req models.SetAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Threshold <= 0 {
		writeError(w, http.StatusBadRequest, "Threshold must be positive")
		return
	}

	if err := h.products.SetAlertThreshold(id, req.Threshold); err != nil {
		if err.Error() == "product not found" {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("Failed to set alert threshold: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to set alert")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Alert set at %.2f", req.Threshold),
	})
}

// GetPriceHistory returns the price ledger for a product
func (h *Handlers) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.products.GetPriceHistory(id, limit)
	if err != nil {
		log.Printf("Failed to get price history: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get price history")
		return
	}

	if history == nil {
		history = []models.PricePoint{}
	}

	writeJSON(w, http.StatusOK, history)
}

// GetPreferences returns (and lazily creates) a user's notification settings
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userEmail := r.URL.Query().Get("user_email")
	if userEmail == "" {
		writeError(w, http.StatusBadRequest, "user_email is required")
		return
	}

	pref, err := h.prefs.GetOrCreate(userEmail)
	if err != nil {
		log.Printf("Failed to get preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	writeJSON(w, http.StatusOK, pref)
}

// UpdatePreferences changes a user's notification settings
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserEmail == "" {
		writeError(w, http.StatusBadRequest, "user_email is required")
		return
	}

	if req.NotificationFrequency != "" {
		switch req.NotificationFrequency {
		case models.FrequencyInstant, models.FrequencyDaily, models.FrequencyWeekly:
		default:
			writeError(w, http.StatusBadRequest, "Invalid notification frequency")
			return
		}
	}

	pref, err := h.prefs.GetOrCreate(req.UserEmail)
	if err != nil {
		log.Printf("Failed to get preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	if req.EmailNotifications != nil {
		pref.EmailNotifications = *req.EmailNotifications
	}
	if req.NotificationFrequency != "" {
		pref.NotificationFrequency = req.NotificationFrequency
	}
	if req.TargetDropPercent != nil {
		pref.TargetDropPercent = *req.TargetDropPercent
	}

	if err := h.prefs.Update(pref); err != nil {
		log.Printf("Failed to update preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	writeJSON(w, http.StatusOK, pref)
}

// performRefresh re-scrapes one product and persists the result. Shared by
// the sync and async refresh paths and by nothing else; the scheduler has
// its own loop.
func (h *Handlers) performRefresh(productID int) (*models.ProductSnapshot, error) {
	product, err := h.products.GetProductByID(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %v", err)
	}

	snapshot, err := h.router.ScrapeProduct(product.URL, product.Store)
	if err != nil {
		if markErr := h.products.MarkOutOfStock(productID); markErr != nil {
			log.Printf("Failed to mark product %d out of stock: %v", productID, markErr)
		}
		return nil, fmt.Errorf("failed to scrape product: %v", err)
	}

	if _, err := h.products.UpdateProductPrice(productID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to update product: %v", err)
	}

	h.maybeSendInstantAlert(product, product.CurrentPrice, snapshot.Price)

	return snapshot, nil
}

// maybeSendInstantAlert fires a price-drop email when the new price
// qualifies and the owner wants instant notifications.
func (h *Handlers) maybeSendInstantAlert(product *models.Product, oldPrice, newPrice float64) {
	if product.UserEmail == "" || newPrice <= 0 || newPrice >= oldPrice {
		return
	}

	pref, err := h.prefs.GetOrCreate(product.UserEmail)
	if err != nil {
		log.Printf("Failed to load preferences for %s: %v", product.UserEmail, err)
		return
	}

	if !notifier.ShouldAlert(product, pref, newPrice) {
		return
	}

	if err := h.notifier.SendPriceDropAlert(product.UserEmail, product, oldPrice, newPrice); err != nil {
		log.Printf("Failed to send alert email: %v", err)
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
