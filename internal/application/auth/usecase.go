package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
	"github.com/jhoicas/inventario-escolar/pkg/jwt"
)

// minPasswordLen longitud mínima de la contraseña de un administrador nuevo.
const minPasswordLen = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y gestión de cuentas.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	jwtCfg       JWTConfig
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, employeeRepo repository.EmployeeRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, employeeRepo: employeeRepo, jwtCfg: jwtCfg, now: time.Now}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// El alcance del token es informativo: cada petición autenticada lo vuelve a leer con ResolvePrincipal.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	scope := ""
	if user.Role == entity.RoleAdmin {
		scope = access.FromStorage(user.AllowedProductTypes).String()
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
		Scope:      scope,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}

// ResolvePrincipal reconstruye el principal desde la cuenta persistida.
// Rol, empleado y alcance salen de la base; del token solo se usa el ID de usuario.
func (uc *AuthUseCase) ResolvePrincipal(ctx context.Context, userID string) (access.Principal, error) {
	if userID == "" {
		return access.Principal{}, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return access.Principal{}, err
	}
	if user == nil {
		return access.Principal{}, domain.ErrUnauthorized
	}
	return access.NewPrincipal(user.ID, user.Role, user.EmployeeID, access.FromStorage(user.AllowedProductTypes)), nil
}

// Me devuelve la cuenta del principal.
func (uc *AuthUseCase) Me(ctx context.Context, principal access.Principal) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Permissions tipos de producto sobre los que el principal puede actuar como admin.
func (uc *AuthUseCase) Permissions(principal access.Principal) dto.PermissionsResponse {
	resp := dto.PermissionsResponse{Role: principal.Role, Types: []string{}}
	if !principal.IsAdmin() {
		return resp
	}
	for _, t := range entity.ProductTypes {
		if access.CanAct(principal, t) {
			resp.Types = append(resp.Types, string(t))
		}
	}
	resp.SuperAdmin = principal.IsSuperAdmin()
	return resp
}

// ListAdmins lista los administradores. Solo para administradores.
func (uc *AuthUseCase) ListAdmins(ctx context.Context, principal access.Principal) ([]dto.UserResponse, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	admins, err := uc.userRepo.ListByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(admins))
	for _, u := range admins {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// CreateAdmin crea un administrador con el alcance indicado. Solo el super-admin.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, principal access.Principal, in dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if err := uc.requireSuperAdmin(ctx, principal); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || !strings.Contains(email, "@") || len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	scope, err := access.ParseScope(in.Scope)
	if err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:                  uuid.New().String(),
		Name:                name,
		Email:               email,
		PasswordHash:        string(hash),
		Role:                entity.RoleAdmin,
		AllowedProductTypes: scope.ToStorage(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// EnsureSuperAdmin crea el primer administrador sin restricción si el email aún no existe.
// Se invoca al arrancar; created=false cuando la cuenta ya estaba registrada.
func (uc *AuthUseCase) EnsureSuperAdmin(ctx context.Context, name, email, password string) (created bool, err error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLen {
		return false, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrateur"
	}
	now := uc.now()
	err = uc.userRepo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// EmployeeAccount indica si el empleado tiene cuenta y con qué email. Solo administradores.
func (uc *AuthUseCase) EmployeeAccount(ctx context.Context, principal access.Principal, employeeID string) (*dto.EmployeeAccountResponse, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	account, err := uc.userRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := &dto.EmployeeAccountResponse{EmployeeID: employeeID}
	if account != nil {
		resp.HasAccount = true
		resp.Email = account.Email
	}
	return resp, nil
}

// SetEmployeeAccount crea la cuenta (rol user) enlazada a un empleado, o reinicia email y
// contraseña de la que ya tiene. Un email usado por otra cuenta → ErrEmailAlreadyExists.
func (uc *AuthUseCase) SetEmployeeAccount(ctx context.Context, principal access.Principal, employeeID string, in dto.EmployeeAccountRequest) (*dto.EmployeeAccountResponse, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	emp, err := uc.requireEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	account, err := uc.userRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	owner, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if owner != nil && (account == nil || owner.ID != account.ID) {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	resp := &dto.EmployeeAccountResponse{EmployeeID: employeeID, HasAccount: true, Email: email}
	if account != nil {
		if err := uc.userRepo.UpdateCredentials(ctx, account.ID, email, string(hash)); err != nil {
			return nil, err
		}
		return resp, nil
	}
	now := uc.now()
	err = uc.userRepo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Name:         emp.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		EmployeeID:   emp.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	resp.Created = true
	return resp, nil
}

func (uc *AuthUseCase) requireEmployee(ctx context.Context, employeeID string) (*entity.Employee, error) {
	if employeeID == "" {
		return nil, domain.ErrInvalidInput
	}
	emp, err := uc.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	return emp, nil
}

// UpdateAdminScope cambia el alcance de otro administrador. Solo el super-admin.
func (uc *AuthUseCase) UpdateAdminScope(ctx context.Context, principal access.Principal, adminID, rawScope string) (*dto.UserResponse, error) {
	if err := uc.requireSuperAdmin(ctx, principal); err != nil {
		return nil, err
	}
	scope, err := access.ParseScope(rawScope)
	if err != nil {
		return nil, err
	}
	target, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Role != entity.RoleAdmin {
		return nil, domain.ErrNotFound
	}
	if err := uc.userRepo.UpdateAllowedProductTypes(ctx, target.ID, scope.ToStorage()); err != nil {
		return nil, err
	}
	target.AllowedProductTypes = scope.ToStorage()
	resp := dto.ToUserResponse(target)
	return &resp, nil
}

// requireSuperAdmin exige alcance total en el principal y en la cuenta persistida.
func (uc *AuthUseCase) requireSuperAdmin(ctx context.Context, principal access.Principal) error {
	if !principal.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	caller, err := uc.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if caller == nil || caller.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if !access.FromStorage(caller.AllowedProductTypes).IsAll() {
		return domain.ErrForbidden
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
