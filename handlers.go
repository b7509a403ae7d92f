package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"amanah/models"
	"amanah/pkg/savings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.PUT("/me", updateMeHandler)
	authGroup.GET("/me/goal", myGoalHandler)
	authGroup.GET("/children", listChildrenHandler)
	authGroup.POST("/children", createChildHandler)
	authGroup.GET("/children/:id", childDetailHandler)
	authGroup.PUT("/children/:id", updateChildHandler)
	authGroup.DELETE("/children/:id", deleteChildHandler)
	authGroup.POST("/children/:id/goal", setGoalHandler)
	authGroup.POST("/children/:id/contribute", contributeHandler)
	authGroup.POST("/children/:id/investment", setInvestmentHandler)
	authGroup.GET("/children/:id/directive", getDirectiveHandler)
	authGroup.POST("/children/:id/directive", setDirectiveHandler)
	authGroup.POST("/children/:id/photo", uploadChildPhotoHandler)
	authGroup.GET("/dashboard", dashboardHandler)
	authGroup.POST("/simulate/monthly", simulateHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// childForParent loads the child in :id and verifies it belongs to the
// authenticated parent. Writes the error response itself on failure.
func childForParent(c *gin.Context, user *models.User) (*models.Child, bool) {
	var child models.Child
	if err := db.Where("id = ? AND parent_id = ?", c.Param("id"), user.ID).First(&child).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child not found"})
		return nil, false
	}
	return &child, true
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := Register(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// create refresh token
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	// load user
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// create access token
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

func meHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func updateMeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user.FullName = req.FullName
	user.Phone = req.Phone
	if err := db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// myGoalHandler returns the goal a child-role user has claimed via its
// goal_owners row, with the same detail payload a parent sees.
func myGoalHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var owner models.GoalOwner
	if err := db.Where("owner_id = ?", user.ID).First(&owner).Error; err != nil || owner.ChildID == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	childID := *owner.ChildID
	var child models.Child
	if err := db.First(&child, childID).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, childDetail(&child))
}

func listChildrenHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	children, err := store.ChildrenByParent(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, children)
}

func createChildHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		DateOfBirth string `json:"date_of_birth"`
		PhotoURL    string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	child := models.Child{ParentID: user.ID, Name: req.Name, PhotoURL: req.PhotoURL}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth, want YYYY-MM-DD"})
			return
		}
		child.DateOfBirth = &dob
	}
	if err := db.Create(&child).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, child)
}

func updateChildHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		DateOfBirth string `json:"date_of_birth"`
		PhotoURL    string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	child.Name = req.Name
	child.PhotoURL = req.PhotoURL
	child.DateOfBirth = nil
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth, want YYYY-MM-DD"})
			return
		}
		child.DateOfBirth = &dob
	}
	if err := db.Save(child).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, child)
}

// deleteChildHandler removes a child and all its dependent rows in one
// transaction: ledger, portfolio, directive, owner association and goal.
func deleteChildHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var owner models.GoalOwner
		if err := tx.Where("child_id = ?", child.ID).First(&owner).Error; err == nil {
			if err := tx.Where("child_id = ?", child.ID).Delete(&models.GoalOwner{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Goal{}, owner.GoalID).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("child_id = ?", child.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("child_id = ?", child.ID).Delete(&models.InvestmentPortfolio{}).Error; err != nil {
			return err
		}
		if err := tx.Where("child_id = ?", child.ID).Delete(&models.FundDirective{}).Error; err != nil {
			return err
		}
		return tx.Delete(child).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "child deleted"})
}

// childDetail assembles the full detail payload for one child: ledger,
// balance, goal with schedule figures, portfolio and directive.
func childDetail(child *models.Child) gin.H {
	now := time.Now()
	var transactions []models.Transaction
	db.Where("child_id = ?", child.ID).Order("date desc, id desc").Find(&transactions)
	balance, _ := store.SavingsBalance(child.ID)

	resp := gin.H{
		"child":           child,
		"transactions":    transactions,
		"savings_balance": balance,
	}
	if goal, err := store.GoalByChild(child.ID); err == nil {
		resp["goal"] = goal
		// The contractual months-to-target and the funding-rate projection
		// are reported side by side; they diverge when the child is ahead
		// of or behind schedule.
		resp["months_remaining"] = savings.MonthsRemaining(goal, now)
		if when, ok := savings.ProjectCompletion(goal, balance, now); ok {
			resp["projected_completion"] = when.Format(dateLayout)
		} else {
			resp["projected_completion"] = nil
		}
	}
	if portfolio, err := store.PortfolioByChild(child.ID); err == nil {
		resp["investment"] = portfolio
	}
	var directive models.FundDirective
	if err := db.Where("child_id = ?", child.ID).First(&directive).Error; err == nil {
		resp["fund_directive"] = directive
	}
	return resp
}

func childDetailHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, childDetail(child))
}

// setGoalHandler creates or updates the goal behind the child's owner
// association. A missing monthly_contribution is filled with the suggested
// amount derived from the target and the current balance.
func setGoalHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	var req struct {
		GoalType            string           `json:"goal_type"`
		TargetAmount        decimal.Decimal  `json:"target_amount"`
		TargetDate          string           `json:"target_date" binding:"required"`
		MonthlyContribution *decimal.Decimal `json:"monthly_contribution"`
		Paused              bool             `json:"paused"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goalType := models.GoalType(req.GoalType)
	if goalType == "" {
		goalType = models.GoalGeneral
	}
	if !goalType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown goal_type"})
		return
	}
	if !req.TargetAmount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_amount must be positive"})
		return
	}
	targetDate, err := time.Parse(dateLayout, req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target_date, want YYYY-MM-DD"})
		return
	}
	var monthly decimal.Decimal
	if req.MonthlyContribution != nil {
		if req.MonthlyContribution.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_contribution must not be negative"})
			return
		}
		monthly = *req.MonthlyContribution
	} else {
		monthly, err = savings.SuggestMonthly(store, child.ID, req.TargetAmount, targetDate, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to derive monthly contribution"})
			return
		}
	}

	var goal models.Goal
	err = db.Transaction(func(tx *gorm.DB) error {
		// One association per child: reuse the existing goal when present.
		var owner models.GoalOwner
		ownerErr := tx.Where("child_id = ?", child.ID).First(&owner).Error
		if ownerErr == nil {
			if err := tx.First(&goal, owner.GoalID).Error; err != nil {
				return err
			}
		}
		goal.GoalType = goalType
		goal.TargetAmount = req.TargetAmount
		goal.TargetDate = targetDate
		goal.MonthlyContribution = monthly
		goal.Paused = req.Paused
		if err := tx.Save(&goal).Error; err != nil {
			return err
		}
		if ownerErr != nil {
			cid := child.ID
			owner = models.GoalOwner{GoalID: goal.ID, OwnerID: user.ID, ChildID: &cid}
			if err := tx.Create(&owner).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save goal"})
		return
	}
	c.JSON(http.StatusOK, goal)
}

func contributeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := savings.Contribute(store, child.ID, req.Amount, models.TransactionManual)
	if err != nil {
		writeSavingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func setInvestmentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	var req struct {
		Class             string `json:"class" binding:"required"`
		AllocationPercent int    `json:"allocation_percent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	class := models.PortfolioClass(req.Class)
	if !class.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown portfolio class"})
		return
	}
	if req.AllocationPercent < 0 || req.AllocationPercent > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "allocation_percent must be between 0 and 100"})
		return
	}
	// Upsert: at most one portfolio per child, value carries over on update.
	var portfolio models.InvestmentPortfolio
	if err := db.Where("child_id = ?", child.ID).First(&portfolio).Error; err != nil {
		portfolio = models.InvestmentPortfolio{ChildID: child.ID, CurrentValue: decimal.Zero}
	}
	portfolio.Class = class
	portfolio.AllocationPercent = req.AllocationPercent
	if err := db.Save(&portfolio).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save portfolio"})
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func getDirectiveHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	var directive models.FundDirective
	if err := db.Where("child_id = ?", child.ID).First(&directive).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "directive not found"})
		return
	}
	c.JSON(http.StatusOK, directive)
}

func setDirectiveHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	var req struct {
		GuardianName    string `json:"guardian_name"`
		GuardianContact string `json:"guardian_contact"`
		Instructions    string `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var directive models.FundDirective
	if err := db.Where("child_id = ?", child.ID).First(&directive).Error; err != nil {
		directive = models.FundDirective{ChildID: child.ID}
	}
	directive.GuardianName = req.GuardianName
	directive.GuardianContact = req.GuardianContact
	directive.Instructions = req.Instructions
	if err := db.Save(&directive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save directive"})
		return
	}
	c.JSON(http.StatusOK, directive)
}

// uploadChildPhotoHandler stores a downscaled copy of an uploaded photo and
// records its relative path on the child.
func uploadChildPhotoHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	child, ok := childForParent(c, user)
	if !ok {
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo too large (max 5MB)"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a valid image"})
		return
	}
	img = imaging.Fit(img, 512, 512, imaging.Lanczos)
	dir := filepath.Join(uploadBaseDir(), "children")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	relPath := filepath.Join("children", fmt.Sprintf("%d.jpg", child.ID))
	if err := imaging.Save(img, filepath.Join(uploadBaseDir(), relPath)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	child.PhotoURL = relPath
	if err := db.Save(child).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_url": relPath})
}

// dashboardHandler summarises every child of the parent: balances, goal
// progress and the family total across savings and investments.
func dashboardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	children, err := store.ChildrenByParent(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	now := time.Now()
	summaries := make([]gin.H, 0, len(children))
	familyTotal := decimal.Zero
	for i := range children {
		child := &children[i]
		balance, err := store.SavingsBalance(child.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		investment := decimal.Zero
		if portfolio, err := store.PortfolioByChild(child.ID); err == nil {
			investment = portfolio.CurrentValue
		}
		total := balance.Add(investment)
		familyTotal = familyTotal.Add(total)

		summary := gin.H{
			"child_id":           child.ID,
			"name":               child.Name,
			"photo_url":          child.PhotoURL,
			"savings_balance":    balance,
			"investment_balance": investment,
			"total_value":        total,
		}
		if goal, err := store.GoalByChild(child.ID); err == nil {
			progress := decimal.Zero
			if goal.TargetAmount.IsPositive() {
				progress = savings.Round2(balance.DivRound(goal.TargetAmount, 4).Mul(decimal.NewFromInt(100)))
			}
			summary["goal_type"] = goal.GoalType
			summary["target_amount"] = goal.TargetAmount
			summary["progress_percent"] = progress
			summary["months_remaining"] = savings.MonthsRemaining(goal, now)
			summary["paused"] = goal.Paused
		}
		summaries = append(summaries, summary)
	}
	c.JSON(http.StatusOK, gin.H{
		"children":             summaries,
		"total_family_savings": familyTotal,
	})
}

// simulateHandler advances every active goal of the parent by one simulated
// month. Deliberately not idempotent: each call applies another month.
func simulateHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	processed, err := savings.RunMonthlyTick(store, user.ID)
	if err != nil {
		writeSavingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals_processed": processed})
}

// writeSavingsError maps the engine's error kinds onto HTTP statuses.
func writeSavingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, savings.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, savings.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, savings.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}
