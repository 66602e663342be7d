package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	anagrafica "github.com/cartotec/gestionale/internal/anagrafica/entity"
	magazzino "github.com/cartotec/gestionale/internal/magazzino/entity"
	"github.com/cartotec/gestionale/internal/middleware"
	ordini "github.com/cartotec/gestionale/internal/ordini/entity"
)

const JWTSecret = "gestionale-jwt-secret-test"

// SetupTestDB apre un database sqlite in memoria, isolato per test, con
// tutte le tabelle migrate
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("apertura database di test: %v", err)
	}

	err = db.AutoMigrate(
		&anagrafica.Cliente{},
		&anagrafica.Fornitore{},
		&ordini.OrdineAcquisto{},
		&magazzino.CartoneArrivo{},
		&magazzino.CartoneGiacenza{},
		&magazzino.CartoneEsaurito{},
		&magazzino.Fustella{},
		&magazzino.MovimentoStorico{},
	)
	if err != nil {
		t.Fatalf("migrazione tabelle di test: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

// TestLogger logger zap silenzioso per i test
func TestLogger() *zap.Logger {
	return zap.NewNop()
}

// SetupRouter crea un router gin di test
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup crea un gruppo di rotte protetto da JWT
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken genera un token JWT valido per i test
func GenerateTestToken(userID, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"iss":   "gestionale",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken token di un utente amministratore di test
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Utente Test", "test@cartotec.it", []string{"admin"})
}

// DoRequest esegue una richiesta HTTP contro il router di test
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodifica la busta JSON di risposta
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedFornitore inserisce un fornitore di test
func SeedFornitore(t *testing.T, db *gorm.DB, codice, ragioneSociale, tipo string) *anagrafica.Fornitore {
	t.Helper()
	fornitore := &anagrafica.Fornitore{
		ID:             uuid.New().String(),
		Codice:         codice,
		RagioneSociale: ragioneSociale,
		Tipo:           tipo,
		ConsideraIVA:   true,
	}
	if err := db.Create(fornitore).Error; err != nil {
		t.Fatalf("inserimento fornitore di test: %v", err)
	}
	return fornitore
}

// SeedCliente inserisce un cliente di test
func SeedCliente(t *testing.T, db *gorm.DB, codice, ragioneSociale string) *anagrafica.Cliente {
	t.Helper()
	cliente := &anagrafica.Cliente{
		ID:             uuid.New().String(),
		Codice:         codice,
		RagioneSociale: ragioneSociale,
		ConsideraIVA:   true,
	}
	if err := db.Create(cliente).Error; err != nil {
		t.Fatalf("inserimento cliente di test: %v", err)
	}
	return cliente
}
