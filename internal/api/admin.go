package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"slotgame/internal/domain" // Importing domain models
	"slotgame/internal/engine" // Pool validation for machine configuration
	"slotgame/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID       uint            `json:"id"`       // User ID
	Username string          `json:"username"` // Username
	Role     string          `json:"role"`     // User role
	Balance  decimal.Decimal `json:"balance"`  // Cached ledger balance
}

// ListUsersHandler returns all users with their balances
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		// Try to get cached response
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		// Fetch total user count and paginated users
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		// Apply offset and limit for pagination
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		// Prepare response data
		resp := make([]UserAdminResponse, len(users))
		// Map users to response format
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:       u.ID,       // User ID
				Username: u.Username, // Username
				Role:     u.Role,     // User role
				Balance:  u.Balance,  // Cached ledger balance
			}
		}
		// Prepare final response data
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// ListTransactionsHandler returns all ledger entries, with optional filtering by user, type, or date
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		var keyParts []string // Parts of the cache key
		// Append each query parameter to the key parts
		for _, k := range []string{"user_id", "type", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		// Join key parts to form the final cache key
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total number of transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}

		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions, // List of transactions
				"page":         cached.Page,         // Current page
				"page_size":    cached.PageSize,     // Page size
				"total":        cached.Total,        // Total number of transactions
				"total_pages":  cached.TotalPages,   // Total pages
				"cached":       true,                // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		// Check and set page number and size from query params
		if p := c.Query("page"); p != "" {
			// If valid, set page number
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		offset := (page - 1) * pageSize          // Calculate offset for pagination
		query := db.Model(&domain.Transaction{}) // Start building the query
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user ID
		}
		if txType := c.Query("type"); txType != "" {
			query = query.Where("type = ?", txType) // Filter by transaction type (BET, WIN, DEPOSIT)
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64 // Total transaction count
		// Get total count of transactions matching the filters
		if err := query.Count(&total).Error; err != nil {
			// If error occurs, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var txs []domain.Transaction // Slice to hold transactions
		// Fetch paginated transactions with filters applied
		if err := query.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&txs).Error; err != nil {
			// If error occurs, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"transactions": txs,        // List of transactions
			"page":         page,       // Current page
			"page_size":    pageSize,   // Page size
			"total":        total,      // Total number of transactions
			"total_pages":  totalPages, // Total pages
			"cached":       false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// MachineSymbolRequest describes one symbol of a new machine
type MachineSymbolRequest struct {
	Name   string          `json:"name" binding:"required"` // Symbol identifier
	Weight int             `json:"weight"`                  // Relative draw frequency
	Payout decimal.Decimal `json:"payout"`                  // Payout multiplier
}

// MachinePaylineRequest describes one custom payline of a new machine
type MachinePaylineRequest struct {
	LineNumber int            `json:"line_number"` // Unique per machine
	Coords     []domain.Coord `json:"coords"`      // Ordered cell references
}

// CreateMachineRequest represents a machine configuration request
type CreateMachineRequest struct {
	Name     string                  `json:"name" binding:"required"` // Machine display name
	Rows     int                     `json:"rows"`                    // Grid rows
	Cols     int                     `json:"cols"`                    // Grid columns
	MaxLines int                     `json:"max_lines"`               // Maximum paylines per bet
	MinBet   decimal.Decimal         `json:"min_bet"`                 // Minimum bet per line
	MaxBet   decimal.Decimal         `json:"max_bet"`                 // Maximum bet per line
	Symbols  []MachineSymbolRequest  `json:"symbols"`                 // Draw pool configuration
	Paylines []MachinePaylineRequest `json:"paylines"`                // Optional custom paylines replacing the default set
}

// CreateMachineHandler configures a new slot machine with its symbols and
// optional custom paylines. Machines are immutable during play; this is the
// configuration-management edge.
func CreateMachineHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMachineRequest // Bind JSON request to struct
		// Validate request shape
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Grid dimensions must be positive
		if req.Rows < 1 || req.Cols < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Grid dimensions must be positive"})
			return
		}
		// Line limit must be positive
		if req.MaxLines < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_lines must be at least 1"})
			return
		}
		// Bet bounds: 0 < min_bet ≤ max_bet
		if !req.MinBet.IsPositive() || req.MaxBet.LessThan(req.MinBet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bet bounds must satisfy 0 < min_bet <= max_bet"})
			return
		}
		// Build the symbol rows and validate weights
		symbols := make([]domain.Symbol, 0, len(req.Symbols))
		for _, s := range req.Symbols {
			// Weights below one would never be drawn
			if s.Weight < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol weights must be positive"})
				return
			}
			// Payout multipliers are non-negative
			if s.Payout.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol payouts must be non-negative"})
				return
			}
			symbols = append(symbols, domain.Symbol{Name: s.Name, Weight: s.Weight, Payout: s.Payout})
		}
		// The machine must be spinnable: reject configurations the pool
		// builder would refuse at play time
		if _, err := engine.BuildPool(symbols); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Machine needs at least one symbol with positive weight"})
			return
		}
		// Build the custom payline rows and validate coordinates
		seenLines := make(map[int]bool) // Line numbers must be unique per machine
		paylines := make([]domain.Payline, 0, len(req.Paylines))
		for _, p := range req.Paylines {
			// Line numbers order and tie-break evaluation
			if p.LineNumber < 1 || seenLines[p.LineNumber] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payline numbers must be positive and unique"})
				return
			}
			seenLines[p.LineNumber] = true
			// A line must reference at least one cell
			if len(p.Coords) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Paylines must reference at least one cell"})
				return
			}
			// Every coordinate must be inside the grid
			for _, coord := range p.Coords {
				if coord.Row < 0 || coord.Row >= req.Rows || coord.Col < 0 || coord.Col >= req.Cols {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Payline coordinates must be within the grid"})
					return
				}
			}
			line := domain.Payline{LineNumber: p.LineNumber} // Payline row under construction
			// Encode the coordinates into the JSON column
			if err := line.SetCoordinates(p.Coords); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode payline"})
				return
			}
			paylines = append(paylines, line)
		}
		// Custom paylines fully replace the default set, so enough must exist
		if len(paylines) > 0 && req.MaxLines > len(paylines) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_lines exceeds the number of configured paylines"})
			return
		}
		// Assemble the machine aggregate
		machine := domain.SlotMachine{
			Name:     req.Name,     // Machine display name
			Rows:     req.Rows,     // Grid rows
			Cols:     req.Cols,     // Grid columns
			MaxLines: req.MaxLines, // Maximum paylines per bet
			MinBet:   req.MinBet,   // Minimum bet per line
			MaxBet:   req.MaxBet,   // Maximum bet per line
			Symbols:  symbols,      // Draw pool configuration
			Paylines: paylines,     // Custom paylines, possibly empty
		}
		// Create the machine with its symbols and paylines atomically
		if err := db.Create(&machine).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"name":  req.Name,    // Machine name
				"error": err.Error(), // Error message
			}).Error("Failed to create slot machine") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create machine"})
			return
		}
		// Log successful machine creation
		logrus.WithFields(logrus.Fields{
			"slot_machine_id": machine.ID,   // New machine ID
			"name":            machine.Name, // Machine name
			"symbols":         len(symbols), // Symbol count
			"paylines":        len(paylines), // Custom payline count
		}).Info("Slot machine created") // Log machine creation
		// Invalidate the machine listing cache
		ctx := context.Background()                        // Context for Redis operations
		_ = utils.DeleteCache(ctx, rdb, "admin:machines")  // Invalidate machines cache
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Machine created", "machine": machine})
	}
}

// ListMachinesHandler returns every configured machine with its symbols and paylines
func ListMachinesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()  // Context for Redis operations
		cacheKey := "admin:machines" // Cache key for the machine listing
		var cached struct {
			Machines []domain.SlotMachine `json:"machines"` // Configured machines
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"machines": cached.Machines, "cached": true})
			return
		}
		var machines []domain.SlotMachine // Slice to hold machines
		// Fetch machines with their symbols and paylines
		if err := db.Preload("Symbols").Preload("Paylines").Find(&machines).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch machines"})
			return
		}
		cached.Machines = machines                                      // Value to cache
		_ = utils.SetCache(ctx, rdb, cacheKey, cached, 60*time.Second)  // Cache the listing for 60 seconds
		c.JSON(http.StatusOK, gin.H{"machines": machines, "cached": false}) // Return the machines
	}
}
