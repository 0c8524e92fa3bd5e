// Package apitest 提供内存版房源平台 API，供各层测试使用
package apitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nhv_landlord_client/internal/model"
)

// Upload 最近一次创建房源收到的 multipart 内容
type Upload struct {
	Fields     url.Values
	ImageNames []string
	ImageData  [][]byte
}

type account struct {
	landlord model.Landlord
	password string
}

// FakeAPI 内存版远程 API
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts map[string]*account // phone -> account
	tokens   map[string]string   // token -> phone
	listings map[int64]*model.Listing
	owners   map[int64]string // listing id -> phone
	nextID   int64

	// 支付网关脚本：第 n 次查询返回 PaymentScript[n]，超出后重复最后一个，为空时一直 pending
	PaymentScript []model.PaymentStatus
	// 第 n 次查询 (从 1 开始) 返回 500
	PaymentFailures map[int]bool
	// 演示模式，创建房源返回 mpesa_demo=true
	Demo bool
	// 非空时创建房源返回 400 与该提示
	CreateError string
	// 非空时我的房源返回 500 与该提示
	MyListingsError string

	paymentQueries int
	calls          map[string]int
	lastUpload     *Upload
}

// NewFakeAPI 启动测试服务器，测试结束自动关闭
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		accounts:        map[string]*account{},
		tokens:          map[string]string{},
		listings:        map[int64]*model.Listing{},
		owners:          map[int64]string{},
		nextID:          100,
		PaymentFailures: map[int]bool{},
		calls:           map[string]int{},
	}
	f.Server = httptest.NewServer(f.router())
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL 客户端使用的 API 根地址
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + "/api"
}

// ==================== 测试断言辅助 ====================

// Calls 某个路由被调用的次数，key 形如 "POST /api/listings"
func (f *FakeAPI) Calls(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// TotalCalls 所有请求数
func (f *FakeAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// PaymentQueries 支付状态查询次数
func (f *FakeAPI) PaymentQueries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paymentQueries
}

// LastUpload 最近一次创建房源的载荷
func (f *FakeAPI) LastUpload() *Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUpload
}

// Listing 读取服务端房源
func (f *FakeAPI) Listing(id int64) *model.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.listings[id]; ok {
		c := *l
		return &c
	}
	return nil
}

// SeedLandlord 预置账号，返回可用 token
func (f *FakeAPI) SeedLandlord(l model.Landlord, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		f.nextID++
		l.ID = f.nextID
	}
	f.accounts[l.Phone] = &account{landlord: l, password: password}
	token := uuid.NewString()
	f.tokens[token] = l.Phone
	return token
}

// SeedListing 预置房源
func (f *FakeAPI) SeedListing(l model.Listing, ownerPhone string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		f.nextID++
		l.ID = f.nextID
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	f.listings[l.ID] = &l
	f.owners[l.ID] = ownerPhone
	return l.ID
}

// RevokeTokens 让所有 token 失效 (模拟过期)
func (f *FakeAPI) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]string{}
}

// ==================== 路由 ====================

func (f *FakeAPI) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), f.countCalls)

	api := r.Group("/api")
	{
		landlords := api.Group("/landlords")
		landlords.POST("/register", f.register)
		landlords.POST("/login", f.login)
		landlords.GET("/profile", f.auth, f.getProfile)
		landlords.PUT("/profile", f.auth, f.updateProfile)
		landlords.GET("/listings", f.auth, f.myListings)

		listings := api.Group("/listings")
		listings.GET("", f.listListings)
		listings.POST("", f.auth, f.createListing)
		listings.GET("/stats/overview", f.stats)
		listings.GET("/payment/status/:checkout", f.paymentStatus)
		listings.GET("/:id", f.getListing)
		listings.DELETE("/:id", f.auth, f.deleteListing)
		listings.POST("/:id/activate", f.auth, f.activate)
		listings.POST("/:id/reviews", f.addReview)
		listings.POST("/:id/inquire", f.inquire)
	}
	return r
}

func (f *FakeAPI) countCalls(c *gin.Context) {
	f.mu.Lock()
	f.calls[c.Request.Method+" "+c.FullPath()]++
	f.mu.Unlock()
	c.Next()
}

func (f *FakeAPI) auth(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	f.mu.Lock()
	phone, ok := f.tokens[token]
	f.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.Set("phone", phone)
	c.Next()
}

func (f *FakeAPI) issueToken(phone string) string {
	token := uuid.NewString()
	f.tokens[token] = phone
	return token
}

// ==================== Landlords ====================

func (f *FakeAPI) register(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Phone == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[body.Phone]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number already registered"})
		return
	}
	f.nextID++
	now := time.Now().UTC().Truncate(time.Second)
	l := model.Landlord{
		ID:        f.nextID,
		Name:      body.Name,
		Phone:     body.Phone,
		Email:     body.Email,
		Location:  body.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.accounts[body.Phone] = &account{landlord: l, password: body.Password}
	c.JSON(http.StatusCreated, gin.H{"token": f.issueToken(body.Phone), "landlord": l})
}

func (f *FakeAPI) login(c *gin.Context) {
	var body struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	_ = c.ShouldBindJSON(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[body.Phone]
	if !ok || acc.password != body.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": f.issueToken(body.Phone), "landlord": acc.landlord})
}

func (f *FakeAPI) getProfile(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, f.accounts[c.GetString("phone")].landlord)
}

func (f *FakeAPI) updateProfile(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := f.accounts[c.GetString("phone")]
	acc.landlord.Name = body.Name
	acc.landlord.Location = body.Location
	acc.landlord.Email = body.Email
	acc.landlord.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	c.JSON(http.StatusOK, acc.landlord)
}

func (f *FakeAPI) myListings(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MyListingsError != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": f.MyListingsError})
		return
	}
	out := []model.Listing{}
	for id, l := range f.listings {
		if f.owners[id] == c.GetString("phone") {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	c.JSON(http.StatusOK, out)
}

// ==================== Listings ====================

func (f *FakeAPI) listListings(c *gin.Context) {
	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Listing
	for _, l := range f.listings {
		if !l.IsActive() {
			continue
		}
		if loc := c.Query("location"); loc != "" && l.Location != loc {
			continue
		}
		if pt := c.Query("property_type"); pt != "" && string(l.PropertyType) != pt {
			continue
		}
		if minPrice > 0 && l.Price.Float64() < minPrice {
			continue
		}
		if maxPrice > 0 && l.Price.Float64() > maxPrice {
			continue
		}
		matched = append(matched, *l)
	}

	switch model.ListingSort(c.Query("sort")) {
	case model.SortPriceAsc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case model.SortPriceDesc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case model.SortPopular:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Views > matched[j].Views })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"listings":   matched[start:end],
		"total":      total,
		"totalPages": totalPages,
	})
}

func (f *FakeAPI) lookup(c *gin.Context) (*model.Listing, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return nil, false
	}
	l, ok := f.listings[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return nil, false
	}
	return l, true
}

func (f *FakeAPI) getListing(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lookup(c)
	if !ok {
		return
	}
	l.Views++
	c.JSON(http.StatusOK, l)
}

func (f *FakeAPI) createListing(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected multipart form"})
		return
	}

	upload := &Upload{Fields: url.Values{}}
	for k, v := range form.Value {
		upload.Fields[k] = append([]string(nil), v...)
	}
	for _, fh := range form.File["images"] {
		upload.ImageNames = append(upload.ImageNames, fh.Filename)
		file, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		data, _ := io.ReadAll(file)
		file.Close()
		upload.ImageData = append(upload.ImageData, data)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpload = upload

	if f.CreateError != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": f.CreateError})
		return
	}
	if len(upload.ImageNames) == 0 || len(upload.ImageNames) > model.MaxAttachments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Between 1 and 5 images required"})
		return
	}

	price, _ := strconv.ParseFloat(upload.Fields.Get("price"), 64)
	f.nextID++
	l := &model.Listing{
		ID:            f.nextID,
		Title:         upload.Fields.Get("title"),
		Location:      upload.Fields.Get("location"),
		PropertyType:  model.PropertyType(upload.Fields.Get("property_type")),
		Price:         model.FlexFloat(price),
		Amenities:     upload.Fields["amenities"],
		Status:        model.ListingStatusPending,
		PaymentStatus: model.ListingPaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	for _, name := range upload.ImageNames {
		l.Images = append(l.Images, "/uploads/"+name)
	}
	f.listings[l.ID] = l
	f.owners[l.ID] = c.GetString("phone")

	c.JSON(http.StatusCreated, gin.H{
		"listing_id":          l.ID,
		"checkout_request_id": "ws_CO_" + strconv.FormatInt(l.ID, 10),
		"mpesa_demo":          f.Demo,
	})
}

func (f *FakeAPI) paymentStatus(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentQueries++
	n := f.paymentQueries

	if f.PaymentFailures[n] {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gateway unavailable"})
		return
	}

	status := model.PaymentPending
	if len(f.PaymentScript) > 0 {
		idx := n - 1
		if idx >= len(f.PaymentScript) {
			idx = len(f.PaymentScript) - 1
		}
		status = f.PaymentScript[idx]
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (f *FakeAPI) activate(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lookup(c)
	if !ok {
		return
	}
	if f.owners[l.ID] != c.GetString("phone") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}
	l.Status = model.ListingStatusActive
	l.PaymentStatus = model.ListingPaymentPaid
	c.JSON(http.StatusOK, gin.H{"message": "Listing activated", "status": l.Status})
}

func (f *FakeAPI) deleteListing(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lookup(c)
	if !ok {
		return
	}
	if f.owners[l.ID] != c.GetString("phone") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return
	}
	delete(f.listings, l.ID)
	delete(f.owners, l.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

func (f *FakeAPI) addReview(c *gin.Context) {
	var body model.Review
	if err := c.ShouldBindJSON(&body); err != nil || body.Rating < 1 || body.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lookup(c)
	if !ok {
		return
	}
	f.nextID++
	body.ID = f.nextID
	body.CreatedAt = time.Now().UTC().Truncate(time.Second)
	l.Reviews = append(l.Reviews, body)
	l.ReviewCount = len(l.Reviews)
	sum := 0
	for _, r := range l.Reviews {
		sum += r.Rating
	}
	l.AvgRating = model.FlexFloat(float64(sum) / float64(len(l.Reviews)))
	c.JSON(http.StatusCreated, body)
}

func (f *FakeAPI) inquire(c *gin.Context) {
	var body struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" || body.Phone == "" || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lookup(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry sent"})
}

func (f *FakeAPI) stats(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active := 0
	locations := map[string]struct{}{}
	for _, l := range f.listings {
		if l.IsActive() {
			active++
			locations[l.Location] = struct{}{}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"active_listings": active,
		"total_landlords": len(f.accounts),
		"locations":       len(locations),
	})
}
