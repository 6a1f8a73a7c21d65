package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/switchtoindia/backend/config"
	"github.com/switchtoindia/backend/internal/domain"
	"github.com/switchtoindia/backend/internal/usecase"
)

// fixedProvider serves a static catalog.
type fixedProvider struct {
	products []domain.ProductRecord
}

func (p *fixedProvider) Products(ctx context.Context) ([]domain.ProductRecord, error) {
	return p.products, nil
}

func (p *fixedProvider) Version() uint64 { return 1 }

// memoryRepo is an in-memory basket repository.
type memoryRepo struct {
	saved []domain.LineItem
}

func (r *memoryRepo) Load(ctx context.Context) ([]domain.LineItem, error) { return r.saved, nil }

func (r *memoryRepo) Save(ctx context.Context, items []domain.LineItem) error {
	r.saved = append([]domain.LineItem(nil), items...)
	return nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := &fixedProvider{products: []domain.ProductRecord{
		{
			ProductID:        "PRD-1",
			ProductName:      "Coca-Cola",
			Brand:            "Coca-Cola",
			ParentCompany:    "The Coca-Cola Company",
			ParentCountry:    "USA",
			Category:         "Beverages",
			Subcategory:      "Cola",
			AlternativeNames: []string{"Campa Cola", "Thums Up"},
		},
		{
			ProductName:   "Campa Cola",
			Brand:         "Campa",
			ParentCountry: "India",
			Category:      "Beverages",
			Subcategory:   "Cola",
			FSSAILicensed: true,
		},
		{
			ProductName:   "Thums Up",
			ParentCountry: "USA",
			Category:      "Beverages",
			Subcategory:   "Cola",
		},
	}}

	search := usecase.NewSearchService(provider)
	alternatives := usecase.NewAlternativeService(provider, usecase.AlternativeConfig{})
	basket := usecase.NewBasketService(context.Background(), &memoryRepo{})

	handler := NewHandler(search, alternatives, basket)
	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "test", AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}
	return SetupRouter(cfg, handler)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSearchEndpoint(t *testing.T) {
	router := testRouter(t)

	t.Run("filters by query", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/products/search?q=campa", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count   int                    `json:"count"`
			Results []domain.ProductRecord `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// "campa" matches Campa Cola directly and Coca-Cola via its
		// listed alternatives.
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/products/search", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Count)
	})
}

func TestAlternativesEndpoint(t *testing.T) {
	router := testRouter(t)

	t.Run("ranks domestic licensed candidate first", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/alternatives", gin.H{
			"source": gin.H{
				"productName": "Coca-Cola",
				"category":    "Beverages",
				"subcategory": "Cola",
			},
			"rawNames": []string{"Thums Up", "Campa Cola"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Alternatives []domain.AlternativeCandidate `json:"alternatives"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Alternatives, 2)
		assert.Equal(t, "Campa Cola", resp.Alternatives[0].Product.ProductName)
		assert.Greater(t, resp.Alternatives[0].Score, resp.Alternatives[1].Score)
	})

	t.Run("uses the source's own alternative list when rawNames omitted", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/alternatives", gin.H{
			"source": gin.H{
				"productName":      "Coca-Cola",
				"alternativeNames": []string{"Campa Cola"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Alternatives []domain.AlternativeCandidate `json:"alternatives"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Alternatives, 1)
	})

	t.Run("rejects a source without identity", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/alternatives", gin.H{
			"source": gin.H{}, "rawNames": []string{"x"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no raw names yields an empty list", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/alternatives", gin.H{
			"source": gin.H{"productName": "Coca-Cola"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"alternatives":[]`)
	})
}

func TestBasketEndpoints(t *testing.T) {
	router := testRouter(t)

	t.Run("add merges duplicate keys", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/basket/items", gin.H{
			"name": "Campa Cola", "country": "India", "price": 40,
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "POST", "/api/v1/basket/items", gin.H{
			"name": "Campa Cola", "country": "India", "price": 75,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Item domain.LineItem `json:"item"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Item.Qty)
		require.NotNil(t, resp.Item.Price)
		assert.Equal(t, 40.0, *resp.Item.Price)
	})

	t.Run("quantity delta with confirmation removes the line", func(t *testing.T) {
		doJSON(t, router, "POST", "/api/v1/basket/items", gin.H{"name": "Chai", "country": "India"})

		w := doJSON(t, router, "GET", "/api/v1/basket", nil)
		var before struct {
			Items []domain.LineItem `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))
		index := len(before.Items) - 1

		w = doJSON(t, router, "POST",
			"/api/v1/basket/items/"+strconv.Itoa(index)+"/quantity",
			gin.H{"delta": -1, "confirmed": false})
		require.Equal(t, http.StatusOK, w.Code)

		var after struct {
			Items []domain.LineItem `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
		assert.Equal(t, 1, after.Items[index].Qty, "declined confirmation resets to 1")

		w = doJSON(t, router, "POST",
			"/api/v1/basket/items/"+strconv.Itoa(index)+"/quantity",
			gin.H{"delta": -1, "confirmed": true})
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
		assert.Len(t, after.Items, index)
	})

	t.Run("price edit rejects garbage", func(t *testing.T) {
		doJSON(t, router, "POST", "/api/v1/basket/items", gin.H{"name": "Soap", "country": "India"})

		w := doJSON(t, router, "PUT", "/api/v1/basket/items/0/price", gin.H{"price": "abc"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = doJSON(t, router, "PUT", "/api/v1/basket/items/0/price", gin.H{"price": "₹1,234.50"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []domain.LineItem `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Items[0].Price)
		assert.Equal(t, 1234.50, *resp.Items[0].Price)
	})

	t.Run("delete requires confirmation", func(t *testing.T) {
		w := doJSON(t, router, "DELETE", "/api/v1/basket/items/0", nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doJSON(t, router, "DELETE", "/api/v1/basket/items/0?confirmed=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("impact reflects the basket", func(t *testing.T) {
		doJSON(t, router, "DELETE", "/api/v1/basket", nil)
		doJSON(t, router, "POST", "/api/v1/basket/items", gin.H{"name": "Campa Cola", "country": "India", "qty": 2, "price": 10})
		doJSON(t, router, "POST", "/api/v1/basket/items", gin.H{"name": "Coca-Cola", "country": "USA", "qty": 1, "price": 20})

		w := doJSON(t, router, "GET", "/api/v1/basket/impact", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var impact domain.ImpactSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &impact))
		assert.Equal(t, 2, impact.DomesticCount)
		assert.Equal(t, 1, impact.ForeignCount)
		assert.Equal(t, 20.0, impact.DomesticAmount)
		assert.Equal(t, 20.0, impact.ForeignAmount)
		assert.Equal(t, 66.67, impact.DomesticPercent)
	})

	t.Run("invalid index answers 400", func(t *testing.T) {
		w := doJSON(t, router, "PUT", "/api/v1/basket/items/abc/price", gin.H{"price": "10"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://switchtoindia.netlify.app", "https://staging.switchtoindia.*"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allows exact origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "https://switchtoindia.netlify.app")
		router.ServeHTTP(w, req)
		assert.Equal(t, "https://switchtoindia.netlify.app", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allows wildcard suffix", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "https://staging.switchtoindia.netlify.app")
		router.ServeHTTP(w, req)
		assert.Equal(t, "https://staging.switchtoindia.netlify.app", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("blocks unknown origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		router.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("OPTIONS", "/ping", nil)
		req.Header.Set("Origin", "https://switchtoindia.netlify.app")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
