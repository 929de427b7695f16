package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/weave/apperror"
)

// RoleRepository is the pgx-backed domain.RoleRepository.
type RoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) domain.RoleRepository {
	return &RoleRepository{db: db}
}

const roleColumns = `id, name, description, is_active, deleted_at, created_at, updated_at`

func scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.IsActive, &role.DeletedAt, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("role not found")
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `INSERT INTO roles (id, name, description) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, role.ID, role.Name, role.Description)
	return err
}

func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1 AND deleted_at IS NULL`
	return scanRole(r.db.QueryRow(ctx, query, id))
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1 AND deleted_at IS NULL`
	return scanRole(r.db.QueryRow(ctx, query, name))
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `UPDATE roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.Exec(ctx, query, role.ID, role.Name, role.Description)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("role not found")
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE roles SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("role not found or already deleted")
	}
	return nil
}

func (r *RoleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM roles WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

func (r *RoleRepository) AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT (user_id, role_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userID, roleID)
	return err
}

func (r *RoleRepository) RemoveFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("role not assigned to user")
	}
	return nil
}

func (r *RoleRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.name, r.description, r.is_active, r.deleted_at, r.created_at, r.updated_at
		FROM roles r
		INNER JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1 AND r.deleted_at IS NULL
		ORDER BY r.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// PermissionRepository is the pgx-backed domain.PermissionRepository.
type PermissionRepository struct {
	db *pgxpool.Pool
}

func NewPermissionRepository(db *pgxpool.Pool) domain.PermissionRepository {
	return &PermissionRepository{db: db}
}

const permissionColumns = `id, resource, action, description, is_active, deleted_at, created_at, updated_at`

func scanPermission(row pgx.Row) (*domain.Permission, error) {
	var permission domain.Permission
	err := row.Scan(
		&permission.ID, &permission.Resource, &permission.Action, &permission.Description,
		&permission.IsActive, &permission.DeletedAt, &permission.CreatedAt, &permission.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("permission not found")
		}
		return nil, err
	}
	return &permission, nil
}

func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	query := `INSERT INTO permissions (id, resource, action, description) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, permission.ID, permission.Resource, permission.Action, permission.Description)
	return err
}

func (r *PermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1 AND deleted_at IS NULL`
	return scanPermission(r.db.QueryRow(ctx, query, id))
}

func (r *PermissionRepository) GetByResourceAndAction(ctx context.Context, resource, action string) (*domain.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE resource = $1 AND action = $2 AND deleted_at IS NULL`
	return scanPermission(r.db.QueryRow(ctx, query, resource, action))
}

func (r *PermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	query := `UPDATE permissions SET resource = $2, action = $3, description = $4, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.Exec(ctx, query, permission.ID, permission.Resource, permission.Action, permission.Description)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("permission not found")
	}
	return nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE permissions SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("permission not found or already deleted")
	}
	return nil
}

func (r *PermissionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []*domain.Permission
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}
	return permissions, rows.Err()
}

func (r *PermissionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

func (r *PermissionRepository) AssignToRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	query := `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT (role_id, permission_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, roleID, permissionID)
	return err
}

func (r *PermissionRepository) RemoveFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("permission not assigned to role")
	}
	return nil
}

func (r *PermissionRepository) GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*domain.Permission, error) {
	query := `
		SELECT p.id, p.resource, p.action, p.description, p.is_active, p.deleted_at, p.created_at, p.updated_at
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		WHERE rp.role_id = $1 AND p.deleted_at IS NULL AND p.is_active = TRUE
		ORDER BY p.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []*domain.Permission
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}
	return permissions, rows.Err()
}

// CheckUserPermission reports whether userID holds resource:action
// through any role directly assigned to them.
func (r *PermissionRepository) CheckUserPermission(ctx context.Context, userID uuid.UUID, resource, action string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM permissions p
			INNER JOIN role_permissions rp ON p.id = rp.permission_id
			INNER JOIN roles r ON rp.role_id = r.id
			INNER JOIN user_roles ur ON r.id = ur.role_id
			WHERE ur.user_id = $1
			  AND p.resource = $2
			  AND p.action = $3
			  AND p.deleted_at IS NULL AND p.is_active = TRUE
			  AND r.deleted_at IS NULL AND r.is_active = TRUE
		)
	`
	var hasPermission bool
	err := r.db.QueryRow(ctx, query, userID, resource, action).Scan(&hasPermission)
	return hasPermission, err
}
