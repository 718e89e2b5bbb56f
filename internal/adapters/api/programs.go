package api

import (
	"context"
	"net/url"

	"mectofit/internal/domain/program"
)

// ProgramsService manages training programs and their exercise
// prescriptions.
type ProgramsService struct {
	client *Client
}

// NewProgramsService creates a ProgramsService.
func NewProgramsService(c *Client) *ProgramsService {
	return &ProgramsService{client: c}
}

// List fetches programs matching the given parameters.
func (s *ProgramsService) List(ctx context.Context, params ListParams) ([]program.Program, error) {
	var out []program.Program
	if err := s.client.Get(ctx, "/programs", params.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single program by ID.
func (s *ProgramsService) Get(ctx context.Context, id int) (program.Program, error) {
	var out program.Program
	if err := s.client.Get(ctx, "/programs/"+itoa(id), nil, &out); err != nil {
		return program.Program{}, err
	}
	return out, nil
}

// Create builds a new program for a client.
// PRE: p passes Validate
func (s *ProgramsService) Create(ctx context.Context, p program.Program) (program.Program, error) {
	if err := p.Validate(); err != nil {
		return program.Program{}, err
	}
	var out program.Program
	if err := s.client.Post(ctx, "/programs", p, &out); err != nil {
		return program.Program{}, err
	}
	return out, nil
}

// Update replaces a program record.
// PRE: p passes Validate
func (s *ProgramsService) Update(ctx context.Context, id int, p program.Program) (program.Program, error) {
	if err := p.Validate(); err != nil {
		return program.Program{}, err
	}
	var out program.Program
	if err := s.client.Put(ctx, "/programs/"+itoa(id), p, &out); err != nil {
		return program.Program{}, err
	}
	return out, nil
}

// Clone copies a program to another client.
func (s *ProgramsService) Clone(ctx context.Context, id, clientID int) (program.Program, error) {
	body := map[string]int{"client_id": clientID}
	var out program.Program
	if err := s.client.Post(ctx, "/programs/"+itoa(id)+"/clone", body, &out); err != nil {
		return program.Program{}, err
	}
	return out, nil
}

// Delete removes a program, permanently when permanent is set.
func (s *ProgramsService) Delete(ctx context.Context, id int, permanent bool) error {
	q := url.Values{}
	if permanent {
		q.Set("permanent", "true")
	}
	return s.client.Delete(ctx, "/programs/"+itoa(id), q)
}

// Exercises lists the exercises prescribed in a program.
func (s *ProgramsService) Exercises(ctx context.Context, programID int) ([]program.Exercise, error) {
	var out []program.Exercise
	if err := s.client.Get(ctx, "/programs/"+itoa(programID)+"/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddExercise appends an exercise to a program.
// PRE: e passes Validate
func (s *ProgramsService) AddExercise(ctx context.Context, programID int, e program.Exercise) (program.Exercise, error) {
	if err := e.Validate(); err != nil {
		return program.Exercise{}, err
	}
	var out program.Exercise
	if err := s.client.Post(ctx, "/programs/"+itoa(programID)+"/exercises", e, &out); err != nil {
		return program.Exercise{}, err
	}
	return out, nil
}

// UpdateExercise replaces an exercise prescription.
// PRE: e passes Validate
func (s *ProgramsService) UpdateExercise(ctx context.Context, programID, exerciseID int, e program.Exercise) (program.Exercise, error) {
	if err := e.Validate(); err != nil {
		return program.Exercise{}, err
	}
	var out program.Exercise
	if err := s.client.Put(ctx, "/programs/"+itoa(programID)+"/exercises/"+itoa(exerciseID), e, &out); err != nil {
		return program.Exercise{}, err
	}
	return out, nil
}

// DeleteExercise removes an exercise from a program.
func (s *ProgramsService) DeleteExercise(ctx context.Context, programID, exerciseID int) error {
	return s.client.Delete(ctx, "/programs/"+itoa(programID)+"/exercises/"+itoa(exerciseID), nil)
}
