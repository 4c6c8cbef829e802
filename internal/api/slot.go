package api

import (
	"context"       // Context for Redis operations
	"encoding/json" // Grid serialization for the spin record
	"errors"        // Sentinel error checks
	"net/http"      // HTTP status codes
	"strconv"       // String conversion
	"time"          // Time durations

	"slotgame/internal/domain" // Importing domain models
	"slotgame/internal/engine" // Slot engine: pool, spin, paylines, evaluation
	"slotgame/internal/ledger" // Balance ledger
	"slotgame/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// errInsufficientFunds marks a round refused before any debit occurred
var errInsufficientFunds = errors.New("insufficient funds")

// SpinRequest represents a spin request
type SpinRequest struct {
	SlotMachineID uint            `json:"slot_machine_id" binding:"required"` // Target machine
	BetAmount     decimal.Decimal `json:"bet_amount"`                         // Bet per line; validated manually for a precise error
	Lines         int             `json:"lines"`                              // Number of paylines to play; validated manually
}

// SpinHandler runs one full spin round: validate → debit → session → spin →
// evaluate → record → credit. All validation happens before the debit; once
// the debit succeeds the round runs to completion inside one transaction.
func SpinHandler(db *gorm.DB, led *ledger.Ledger, gen *engine.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SpinRequest // Bind JSON request to struct
		// Validate request shape
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Bet must be strictly positive
		if !req.BetAmount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bet amount must be greater than zero"})
			return
		}
		var machine domain.SlotMachine // Target machine with its configuration
		// Load the machine together with symbols and custom paylines
		if err := db.Preload("Symbols").Preload("Paylines").First(&machine, req.SlotMachineID).Error; err != nil {
			// If machine not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot machine not found"})
			return
		}
		// Enforce the machine's bet bounds
		if req.BetAmount.LessThan(machine.MinBet) || req.BetAmount.GreaterThan(machine.MaxBet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bet must be between " + machine.MinBet.String() + " and " + machine.MaxBet.String()})
			return
		}
		// Enforce the machine's line limit
		if req.Lines > machine.MaxLines {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid number of lines, max is " + strconv.Itoa(machine.MaxLines)})
			return
		}
		// Resolve the paylines to evaluate (custom set replaces the default set)
		paylines, err := engine.ResolvePaylines(machine.Paylines, req.Lines)
		if err != nil {
			// Line count out of range is a client error
			if errors.Is(err, engine.ErrInvalidLines) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Undecodable payline configuration is an operator fault
			logrus.WithFields(logrus.Fields{
				"slot_machine_id": machine.ID,  // Misconfigured machine
				"error":           err.Error(), // Decode failure
			}).Error("Payline configuration fault")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Machine is not configured correctly"})
			return
		}
		// Build the weighted draw pool; refuse spins against unconfigured machines
		pool, err := engine.BuildPool(machine.Symbols)
		if err != nil {
			// Operator-facing fault, surfaced before any balance mutation
			logrus.WithFields(logrus.Fields{
				"slot_machine_id": machine.ID,  // Misconfigured machine
				"error":           err.Error(), // Pool build failure
			}).Error("Symbol configuration fault")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Machine is not configured correctly"})
			return
		}
		payouts := engine.PayoutTable(machine.Symbols)                          // Symbol → multiplier lookup
		totalBet := req.BetAmount.Mul(decimal.NewFromInt(int64(req.Lines)))     // Debited amount: bet per line × lines
		var grid [][]string                                                     // Realized symbol grid
		var winnings decimal.Decimal                                            // Total winnings of this spin
		var winningLines []int                                                  // Winning line numbers, 1-indexed
		var balanceAfter decimal.Decimal                                        // Balance once the round settled
		// One atomic round per user: sufficiency check, debit, spin and credit
		// never interleave with another round or deposit for the same user
		err = led.Round(userID.(uint), func(tx *gorm.DB) error {
			var user domain.User // Current user row, read under the round lock
			if err := tx.First(&user, userID).Error; err != nil {
				return err // Return error to rollback
			}
			// Sufficiency is checked before any debit occurs
			if user.Balance.LessThan(totalBet) {
				return errInsufficientFunds
			}
			// Debit the full stake
			if err := ledger.Debit(tx, &user, totalBet); err != nil {
				return err // Return error to rollback
			}
			// Open the session eagerly so partial failures stay auditable
			session := domain.GameSession{
				UserID:        user.ID,       // Owning user
				SlotMachineID: machine.ID,    // Machine played
				BetAmount:     req.BetAmount, // Bet per line at creation
				Lines:         req.Lines,     // Lines at creation
			}
			if err := tx.Create(&session).Error; err != nil {
				return err // Return error to rollback
			}
			grid = gen.Generate(machine.Rows, machine.Cols, pool)                       // Draw the grid
			winnings, winningLines = engine.Evaluate(grid, paylines, req.BetAmount, payouts) // Score the paylines
			gridJSON, err := json.Marshal(grid)                                         // Serialize the realized grid
			if err != nil {
				return err // Return error to rollback
			}
			// Record the immutable spin row
			spin := domain.Spin{
				GameSessionID: session.ID,       // Owning session (1:1)
				SpinResult:    string(gridJSON), // Realized grid
				Winnings:      winnings,         // Total winnings
			}
			if err := tx.Create(&spin).Error; err != nil {
				return err // Return error to rollback
			}
			// Close the session with its winnings and end time
			now := time.Now()
			if err := tx.Model(&session).Updates(map[string]interface{}{
				"total_winnings": winnings, // Winnings accumulated by this round
				"session_end":    now,      // Round completed
			}).Error; err != nil {
				return err // Return error to rollback
			}
			// Credit winnings, if any, inside the same atomic round
			if winnings.IsPositive() {
				if err := ledger.Credit(tx, &user, winnings); err != nil {
					return err // Return error to rollback
				}
			}
			balanceAfter = user.Balance // Settled balance for the response
			return nil                  // Commit transaction
		})
		// Handle round result
		if err != nil {
			// Insufficient funds is surfaced before any debit occurred
			if errors.Is(err, errInsufficientFunds) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":         userID,      // Player
				"slot_machine_id": machine.ID,  // Machine played
				"bet_amount":      req.BetAmount, // Bet per line
				"lines":           req.Lines,   // Lines played
				"error":           err.Error(), // Error message
			}).Error("Spin round failed") // Log round failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Spin failed"})
			return
		}
		// Log the settled round
		logrus.WithFields(logrus.Fields{
			"user_id":         userID,                          // Player
			"slot_machine_id": machine.ID,                      // Machine played
			"bet_amount":      req.BetAmount,                   // Bet per line
			"lines":           req.Lines,                       // Lines played
			"winnings":        winnings,                        // Total winnings
			"timestamp":       time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Spin round settled") // Log round settlement
		// Invalidate balance and transaction history cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			invalidateUserCaches(rdb, userID.(uint)) // Drop stale balance and history entries
		}
		// Return the round result
		c.JSON(http.StatusOK, gin.H{
			"grid":                 grid,         // Realized symbol grid
			"winnings":             winnings,     // Total winnings
			"winning_line_numbers": winningLines, // Winning line numbers in payline order
			"balance":              balanceAfter, // Resulting balance
		})
	}
}

// DepositRequest represents a deposit request
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"` // Deposit amount; validated manually for a precise error
}

// DepositHandler credits a deposit to the player's balance through the ledger
func DepositHandler(db *gorm.DB, led *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req DepositRequest // Bind JSON request to struct
		// Validate request shape; an unparsable amount is a client error
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
			return
		}
		// Deposits must be strictly positive; there is no upper bound
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deposit amount must be greater than zero"})
			return
		}
		var balanceAfter decimal.Decimal // Balance once the deposit settled
		// Deposits take the same per-user lock as spins
		err := led.Round(userID.(uint), func(tx *gorm.DB) error {
			var user domain.User // Current user row, read under the round lock
			if err := tx.First(&user, userID).Error; err != nil {
				return err // Return error to rollback
			}
			// Credit the deposit and append its ledger row
			if err := ledger.Deposit(tx, &user, req.Amount); err != nil {
				return err // Return error to rollback
			}
			balanceAfter = user.Balance // Settled balance for the response
			return nil                  // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"amount":  req.Amount,  // Deposit amount
				"error":   err.Error(), // Error message
			}).Error("Deposit failed") // Log deposit failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Deposit failed"}) // Return internal server error
			return
		}
		// Log successful deposit
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"amount":    req.Amount,                      // Deposit amount
			"type":      domain.TransactionDeposit,       // Transaction type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Deposit transaction") // Log deposit success
		// Invalidate balance and transaction history cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			invalidateUserCaches(rdb, userID.(uint)) // Drop stale balance and history entries
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Deposit successful", "current_balance": balanceAfter})
	}
}

// BalanceHandler returns the authenticated player's balance
func BalanceHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                                    // Context for Redis operations
		cacheKey := "balance:user:" + strconv.Itoa(int(userID.(uint))) // Cache key for the balance
		var cached struct {
			Balance decimal.Decimal `json:"balance"` // Cached balance value
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"balance": cached.Balance, "cached": true})
			return
		}
		var user domain.User // User row holding the cached ledger balance
		// If not in cache, fetch from DB
		if err := db.First(&user, userID).Error; err != nil {
			// Return not found if the user row is gone
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		cached.Balance = user.Balance                                   // Value to cache
		_ = utils.SetCache(ctx, rdb, cacheKey, cached, 60*time.Second)  // Cache the balance for 60 seconds
		c.JSON(http.StatusOK, gin.H{"balance": user.Balance, "cached": false}) // Return the balance
	}
}

// RTPHandler runs an offline RTP/volatility simulation for a machine.
// Read-only relative to persisted state: no transactions, sessions or spins
// are written, no user locks are taken.
func RTPHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		machineID, err := strconv.Atoi(c.Param("machine_id")) // Parse the machine ID from the path
		if err != nil || machineID < 1 {
			// If malformed, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid machine id"})
			return
		}
		spins := 0 // 0 selects the default batch size
		// Optional spin count override
		if s := c.Query("total_spins"); s != "" {
			// Convert total_spins to integer
			if v, err := strconv.Atoi(s); err == nil && v > 0 {
				spins = v // Set spin count if valid
			}
		}
		ctx := context.Background() // Context for Redis operations
		// Cache key covering machine and batch size
		cacheKey := "rtp:machine:" + strconv.Itoa(machineID) + ":spins:" + strconv.Itoa(spins)
		var cached engine.Simulation // Cached simulation summary
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"rtp":        cached.RTP,        // Return-to-player percentage
				"volatility": cached.Volatility, // Payout standard deviation
				"spins":      cached.Spins,      // Simulated spin count
				"cached":     true,              // Indicate response is from cache
			})
			return
		}
		var machine domain.SlotMachine // Target machine with its configuration
		// Load the machine together with symbols and custom paylines
		if err := db.Preload("Symbols").Preload("Paylines").First(&machine, machineID).Error; err != nil {
			// If machine not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot machine not found"})
			return
		}
		sim, err := simulateMachine(&machine, spins) // Run the batch against a fresh generator
		if err != nil {
			// Misconfigured machines are an operator fault
			logrus.WithFields(logrus.Fields{
				"slot_machine_id": machine.ID,  // Misconfigured machine
				"error":           err.Error(), // Configuration failure
			}).Error("RTP simulation refused") // Log configuration fault
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Machine is not configured correctly"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, sim, 5*time.Minute) // Cache the report for 5 minutes
		// Return the simulation summary
		c.JSON(http.StatusOK, gin.H{
			"rtp":        sim.RTP,        // Return-to-player percentage
			"volatility": sim.Volatility, // Payout standard deviation
			"spins":      sim.Spins,      // Simulated spin count
			"cached":     false,          // Indicate response is not from cache
		})
	}
}

// simulateMachine resolves a machine's configuration and runs the simulator
// over its full payline set with a fresh, independently seeded generator
func simulateMachine(machine *domain.SlotMachine, spins int) (engine.Simulation, error) {
	pool, err := engine.BuildPool(machine.Symbols) // Weighted draw pool
	if err != nil {
		return engine.Simulation{}, err // Unconfigured machine
	}
	lines := machine.MaxLines // Simulate across every line the machine offers
	// Cap at the available payline count
	if available := len(machine.Paylines); available > 0 {
		if lines > available {
			lines = available
		}
	} else if lines > engine.DefaultLineCount {
		lines = engine.DefaultLineCount
	}
	paylines, err := engine.ResolvePaylines(machine.Paylines, lines) // Resolved evaluation lines
	if err != nil {
		return engine.Simulation{}, err // Broken payline configuration
	}
	payouts := engine.PayoutTable(machine.Symbols) // Symbol → multiplier lookup
	// A fresh generator keeps the hot play path's source uncontended
	return engine.Simulate(engine.NewGenerator(), pool, machine.Rows, machine.Cols, paylines, payouts, spins), nil
}

// TransactionHistoryHandler returns the authenticated player's ledger entries
func TransactionHistoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		offset := (page - 1) * pageSize // Calculate offset
		// Redis cache key
		cacheKey := "txhistory:user:" + strconv.Itoa(int(userID.(uint))) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions, // Cached transactions
				"page":         cached.Page,         // Current page
				"page_size":    cached.PageSize,     // Page size
				"total":        cached.Total,        // Total transactions
				"total_pages":  cached.TotalPages,   // Total pages
				"cached":       true,
			})
			return
		}
		var total int64 // Total count of transactions
		// Count total transactions for pagination
		if err := db.Model(&domain.Transaction{}).
			Where("user_id = ?", userID).
			Count(&total).Error; err != nil {
			// If counting fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var transactions []domain.Transaction // Slice to hold transactions
		// Fetch paginated transactions
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"transactions": transactions, // List of transactions
			"page":         page,         // Current page
			"page_size":    pageSize,     // Page size
			"total":        total,        // Total transactions
			"total_pages":  totalPages,   // Total pages
			"cached":       false,        // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return transaction history
	}
}

// invalidateUserCaches drops the balance and transaction history cache
// entries touched by a settled round or deposit
func invalidateUserCaches(rdb *redis.Client, userID uint) {
	ctx := context.Background()                              // Context for Redis operations
	userKey := "balance:user:" + strconv.Itoa(int(userID))   // Balance cache key
	txKeyPrefix := "txhistory:user:" + strconv.Itoa(int(userID)) // Transaction history prefix
	_ = utils.DeleteCache(ctx, rdb, userKey)                 // Invalidate balance cache
	// Invalidate all paginated txhistory cache for this user (simple version: delete first 5 pages)
	for i := 1; i <= 5; i++ {
		// Delete cache entries
		_ = utils.DeleteCache(ctx, rdb, txKeyPrefix+":page:"+strconv.Itoa(i)+":size:20")
	}
}
