package catalog

import "context"

type (
	Repository interface {
		GetSubject(ctx context.Context, id string) (Subject, error)
		// FilterSubjects applies AND operation on available QueryFilter fields,
		// ordered by (semester, code).
		FilterSubjects(ctx context.Context, filter QueryFilter) ([]Subject, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Subject, error) {
	return svc.repo.FilterSubjects(ctx, filter)
}

// Resolver returns a lookup view that remembers every subject it has fetched,
// so resolving a batch of registration records hits the repository at most
// once per subject. It is meant to live for a single request; it is not safe
// for concurrent use.
func (svc *Service) Resolver() *Resolver {
	return &Resolver{svc: svc, seen: make(map[string]Subject)}
}

type Resolver struct {
	svc  *Service
	seen map[string]Subject
}

func (r *Resolver) Get(ctx context.Context, id string) (Subject, error) {
	if subj, ok := r.seen[id]; ok {
		return subj, nil
	}
	subj, err := r.svc.Get(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	r.seen[id] = subj
	return subj, nil
}
