package handlers

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"app/config"
	"app/database"
	"app/models"
)

// HandleLogin authenticates an operator and issues a JWT.
// POST /api/v1/auth/login
func HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Email and password are required"})
	}

	var op models.Operator
	var passwordHash string
	err := database.GetDB().QueryRow(c.Context(), `
		SELECT id, name, email, role, is_active, password_hash, created_at, updated_at
		FROM operators WHERE email = $1
	`, req.Email).Scan(&op.ID, &op.Name, &op.Email, &op.Role, &op.IsActive, &passwordHash, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}
	if !op.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Account is deactivated"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}

	token, err := generateToken(op)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create session"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"token": token, "operator": op}})
}

func generateToken(op models.Operator) (string, error) {
	claims := models.JwtClaims{
		UserID: op.ID,
		Role:   op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// HandleInitializeOperator creates the first operator account if none
// exists, guarded by an init token.
// POST /api/v1/auth/init
func HandleInitializeOperator(c *fiber.Ctx) error {
	initToken := os.Getenv("INIT_TOKEN")
	if initToken == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "INIT_TOKEN not configured"})
	}
	if c.Get("X-Init-Token") != initToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid initialization token"})
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing required fields (name, email, password)"})
	}

	var existing int
	if err := database.GetDB().QueryRow(c.Context(), "SELECT COUNT(*) FROM operators").Scan(&existing); err != nil {
		log.Printf("Database error checking operators: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "An operator already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Error processing password"})
	}

	var op models.Operator
	err = database.GetDB().QueryRow(c.Context(), `
		INSERT INTO operators (name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, 'operator', true)
		RETURNING id, name, email, role, is_active, created_at, updated_at
	`, req.Name, req.Email, string(hashedPassword)).Scan(
		&op.ID, &op.Name, &op.Email, &op.Role, &op.IsActive, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error creating operator: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Error creating operator"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": op})
}
