package jobs

import (
	"context"
	"errors"
	"fmt"

	"repairbot/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobNotFoundMessage = "job not found"

// Store is the persistence interface for jobs.
type Store interface {
	// Create inserts a new draft job at intake step 1.
	Create(ctx context.Context, customerHandle, photoURL string) (Job, error)

	// Get retrieves a job with its assigned technician, if any.
	// Returns apperr.NotFound when the job is absent.
	Get(ctx context.Context, id int64) (Job, error)

	// MostRecentDraft returns the latest draft (by id) for a customer.
	// Returns apperr.NotFound when the customer has no draft.
	MostRecentDraft(ctx context.Context, customerHandle string) (Job, error)

	// UpdateDraft persists the intake-owned fields of a draft: model, qty,
	// accessory flag, notes, status and intake step.
	UpdateDraft(ctx context.Context, job Job) error

	// UpdatePhoto rebinds the photo reference after blob relocation.
	UpdatePhoto(ctx context.Context, id int64, photoURL, blobKey string) error

	// Assign binds a technician and sets status to assigned.
	Assign(ctx context.Context, id, techID int64) (Job, error)

	// SetStatus updates the lifecycle status.
	SetStatus(ctx context.Context, id int64, status Status) (Job, error)

	// SetIssue appends a line to the job's free-text notes and moves the
	// status to issue in one write.
	SetIssue(ctx context.Context, id int64, note string) (Job, error)
}

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a new jobs repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

const jobColumns = `
	j.id, j.created_at, j.customer_handle, j.model, j.qty, j.include_accessory,
	j.notes, j.photo_url, j.blob_key, j.status, j.intake_step,
	t.id, t.name, t.handle`

const jobFromClause = `
	FROM jobs j
	LEFT JOIN technicians t ON t.id = j.assigned_to`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	var techID *int64
	var techName, techHandle *string

	err := row.Scan(
		&j.ID, &j.CreatedAt, &j.CustomerHandle, &j.Model, &j.Qty, &j.IncludeAccessory,
		&j.Notes, &j.PhotoURL, &j.BlobKey, &j.Status, &j.IntakeStep,
		&techID, &techName, &techHandle,
	)
	if err != nil {
		return Job{}, err
	}

	if techID != nil {
		j.AssignedTo = &AssignedTech{ID: *techID, Name: *techName, Handle: *techHandle}
	}

	return j, nil
}

// Create inserts a new draft job at intake step 1.
func (r *Repo) Create(ctx context.Context, customerHandle, photoURL string) (Job, error) {
	query := `
		INSERT INTO jobs (customer_handle, photo_url, status, intake_step)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	j := Job{
		CustomerHandle: customerHandle,
		PhotoURL:       photoURL,
		Status:         StatusDraft,
		IntakeStep:     StepModel,
	}

	err := r.pool.QueryRow(ctx, query, customerHandle, photoURL, StatusDraft, StepModel).
		Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}

	return j, nil
}

// Get retrieves a job by id with its assigned technician.
func (r *Repo) Get(ctx context.Context, id int64) (Job, error) {
	query := `SELECT` + jobColumns + jobFromClause + `
	WHERE j.id = $1`

	j, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMessage)
		}
		return Job{}, fmt.Errorf("get job: %w", err)
	}

	return j, nil
}

// MostRecentDraft returns the latest draft for a customer.
func (r *Repo) MostRecentDraft(ctx context.Context, customerHandle string) (Job, error) {
	query := `SELECT` + jobColumns + jobFromClause + `
	WHERE j.customer_handle = $1 AND j.status = $2
	ORDER BY j.id DESC
	LIMIT 1`

	j, err := scanJob(r.pool.QueryRow(ctx, query, customerHandle, StatusDraft))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMessage)
		}
		return Job{}, fmt.Errorf("most recent draft: %w", err)
	}

	return j, nil
}

// UpdateDraft persists the intake-owned fields of a draft.
func (r *Repo) UpdateDraft(ctx context.Context, job Job) error {
	query := `
		UPDATE jobs
		SET model = $2, qty = $3, include_accessory = $4, notes = $5,
		    status = $6, intake_step = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, job.ID, job.Model, job.Qty,
		job.IncludeAccessory, job.Notes, job.Status, job.IntakeStep)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMessage)
	}

	return nil
}

// UpdatePhoto rebinds the photo reference after blob relocation.
func (r *Repo) UpdatePhoto(ctx context.Context, id int64, photoURL, blobKey string) error {
	query := `UPDATE jobs SET photo_url = $2, blob_key = $3 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, photoURL, blobKey); err != nil {
		return fmt.Errorf("update photo: %w", err)
	}

	return nil
}

// Assign binds a technician and sets status to assigned.
func (r *Repo) Assign(ctx context.Context, id, techID int64) (Job, error) {
	query := `
		UPDATE jobs
		SET assigned_to = $2, status = $3
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, techID, StatusAssigned)
	if err != nil {
		return Job{}, fmt.Errorf("assign job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Job{}, apperr.NotFound(jobNotFoundMessage)
	}

	return r.Get(ctx, id)
}

// SetStatus updates the lifecycle status.
func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) (Job, error) {
	query := `UPDATE jobs SET status = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return Job{}, fmt.Errorf("set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Job{}, apperr.NotFound(jobNotFoundMessage)
	}

	return r.Get(ctx, id)
}

// SetIssue appends a line to the job's notes and sets the status to issue.
func (r *Repo) SetIssue(ctx context.Context, id int64, note string) (Job, error) {
	query := `
		UPDATE jobs
		SET notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END,
		    status = $3
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, note, StatusIssue)
	if err != nil {
		return Job{}, fmt.Errorf("set issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Job{}, apperr.NotFound(jobNotFoundMessage)
	}

	return r.Get(ctx, id)
}
