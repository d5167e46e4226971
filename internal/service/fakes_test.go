package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"visaforge-be/internal/entity"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/repository/contract"
	"visaforge-be/internal/repository/specification"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/pkg/billing"
	"visaforge-be/pkg/events"
	"visaforge-be/pkg/llm"
	"visaforge-be/pkg/webref"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func nopLogger() logger.ILogger { return logger.NewNopLogger() }

// fakeDB is a shared in-memory backing store for every fake repository.
type fakeDB struct {
	mu      sync.Mutex
	users   []*entity.User
	cases   []*entity.VisaCase
	uploads []*entity.EvidenceUpload
	tasks   []*entity.Task
	seq     int

	failUploadUpsert bool
	failTaskCreate   bool
	// metaConflicts makes the next UpdateMeta calls report a version conflict.
	metaConflicts int
}

func newFakeDB() *fakeDB { return &fakeDB{} }

func (db *fakeDB) tick() time.Time {
	db.seq++
	return fixedNow.Add(time.Duration(db.seq) * time.Second)
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{db: db}
}

func (db *fakeDB) addUser(email string) *entity.User {
	u := &entity.User{Id: uuid.New(), Email: email, CreatedAt: db.tick()}
	db.users = append(db.users, u)
	return u
}

func (db *fakeDB) addCase(userId uuid.UUID, visaType string) *entity.VisaCase {
	vc := &entity.VisaCase{
		Id:        uuid.New(),
		UserId:    userId,
		VisaType:  visaType,
		Status:    entity.CaseStatusInProgress,
		CreatedAt: db.tick(),
	}
	db.cases = append(db.cases, vc)
	return vc
}

func (db *fakeDB) addUpload(userId, caseId uuid.UUID, evidenceId string, complete bool) *entity.EvidenceUpload {
	u := &entity.EvidenceUpload{
		Id:         uuid.New(),
		UserId:     userId,
		VisaAppId:  caseId,
		EvidenceId: evidenceId,
		Complete:   complete,
		CreatedAt:  db.tick(),
	}
	db.uploads = append(db.uploads, u)
	return u
}

func (db *fakeDB) addTask(userId, caseId uuid.UUID, title string, status entity.TaskStatus, due *time.Time) *entity.Task {
	t := &entity.Task{
		Id:        uuid.New(),
		UserId:    userId,
		VisaAppId: caseId,
		Title:     title,
		Status:    status,
		DueDate:   due,
		CreatedAt: db.tick(),
	}
	db.tasks = append(db.tasks, t)
	return t
}

func (db *fakeDB) caseByID(id uuid.UUID) *entity.VisaCase {
	for _, c := range db.cases {
		if c.Id == id {
			return c
		}
	}
	return nil
}

func (db *fakeDB) tasksOf(caseId uuid.UUID) []*entity.Task {
	var out []*entity.Task
	for _, t := range db.tasks {
		if t.VisaAppId == caseId {
			out = append(out, t)
		}
	}
	return out
}

// row is the projection of an entity that specifications are evaluated on.
type row struct {
	id        uuid.UUID
	userId    uuid.UUID
	visaAppId uuid.UUID
	evidence  string
	email     string
	title     string
	status    string
	due       *time.Time
	createdAt time.Time
}

func matches(r row, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if r.id != spec.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range spec.IDs {
				if id == r.id {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.UserOwnedBy:
			if r.userId != spec.UserID {
				return false
			}
		case specification.ByVisaAppID:
			if r.visaAppId != spec.VisaAppID {
				return false
			}
		case specification.ByEvidenceID:
			if r.evidence != spec.EvidenceID {
				return false
			}
		case specification.ByEmailInsensitive:
			if !strings.EqualFold(r.email, strings.TrimSpace(spec.Email)) {
				return false
			}
		case specification.StatusNot:
			if r.status == spec.Status {
				return false
			}
		case specification.DueOnOrBefore:
			if r.due == nil || r.due.After(spec.At) {
				return false
			}
		case specification.FilterBy:
			if spec.Field == "title" && r.title != spec.Value {
				return false
			}
		}
	}
	return true
}

func ordered[T any](items []T, key func(T) row, specs []specification.Specification) []T {
	for _, s := range specs {
		ob, ok := s.(specification.OrderBy)
		if !ok {
			continue
		}
		less := func(a, b row) bool { return a.createdAt.Before(b.createdAt) }
		if ob.Field == "due_date" {
			less = func(a, b row) bool {
				if a.due == nil || b.due == nil {
					return b.due == nil && a.due != nil
				}
				return a.due.Before(*b.due)
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			if ob.Desc {
				return less(key(items[j]), key(items[i]))
			}
			return less(key(items[i]), key(items[j]))
		})
	}
	return items
}

func userRow(u *entity.User) row {
	return row{id: u.Id, email: u.Email, createdAt: u.CreatedAt}
}

func caseRow(c *entity.VisaCase) row {
	return row{id: c.Id, userId: c.UserId, createdAt: c.CreatedAt}
}

func uploadRow(u *entity.EvidenceUpload) row {
	return row{id: u.Id, userId: u.UserId, visaAppId: u.VisaAppId, evidence: u.EvidenceId, createdAt: u.CreatedAt}
}

func taskRow(t *entity.Task) row {
	r := row{id: t.Id, userId: t.UserId, visaAppId: t.VisaAppId, title: t.Title, status: string(t.Status), due: t.DueDate, createdAt: t.CreatedAt}
	if t.EvidenceId != nil {
		r.evidence = *t.EvidenceId
	}
	return r
}

func filterRows[T any](all []T, key func(T) row, specs []specification.Specification) []T {
	var out []T
	for _, item := range all {
		if matches(key(item), specs) {
			out = append(out, item)
		}
	}
	return ordered(out, key, specs)
}

type fakeUoW struct {
	db *fakeDB
}

func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) UserRepository() contract.UserRepository { return &fakeUserRepo{db: u.db} }
func (u *fakeUoW) VisaCaseRepository() contract.VisaCaseRepository {
	return &fakeCaseRepo{db: u.db}
}
func (u *fakeUoW) EvidenceUploadRepository() contract.EvidenceUploadRepository {
	return &fakeUploadRepo{db: u.db}
}
func (u *fakeUoW) TaskRepository() contract.TaskRepository { return &fakeTaskRepo{db: u.db} }

type fakeUserRepo struct{ db *fakeDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user.CreatedAt = r.db.tick()
	copied := *user
	r.db.users = append(r.db.users, &copied)
	return nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	for _, u := range r.db.users {
		if u.Id == user.Id {
			u.Email = user.Email
			r.db.mu.Unlock()
			return nil
		}
	}
	r.db.mu.Unlock()
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.User
	for _, u := range filterRows(r.db.users, userRow, specs) {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

type fakeCaseRepo struct{ db *fakeDB }

func (r *fakeCaseRepo) Create(ctx context.Context, vc *entity.VisaCase) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	vc.CreatedAt = r.db.tick()
	copied := *vc
	r.db.cases = append(r.db.cases, &copied)
	return nil
}

func (r *fakeCaseRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VisaCase, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeCaseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VisaCase, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.VisaCase
	for _, c := range filterRows(r.db.cases, caseRow, specs) {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCaseRepo) UpdateMeta(ctx context.Context, vc *entity.VisaCase) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored := r.db.caseByID(vc.Id)
	if stored == nil {
		return errors.New("case vanished")
	}
	if r.db.metaConflicts > 0 {
		r.db.metaConflicts--
		stored.MetaVersion++
		return contract.ErrVersionConflict
	}
	if stored.MetaVersion != vc.MetaVersion {
		return contract.ErrVersionConflict
	}
	stored.Meta = vc.Meta
	stored.MetaVersion++
	vc.MetaVersion = stored.MetaVersion
	return nil
}

func (r *fakeCaseRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c := r.db.caseByID(id); c != nil {
		c.Progress = progress
	}
	return nil
}

func (r *fakeCaseRepo) RaiseProgress(ctx context.Context, id uuid.UUID, atLeast int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c := r.db.caseByID(id); c != nil && c.Progress < atLeast {
		c.Progress = atLeast
	}
	return nil
}

type fakeUploadRepo struct{ db *fakeDB }

func (r *fakeUploadRepo) Upsert(ctx context.Context, upload *entity.EvidenceUpload) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failUploadUpsert {
		return errBoom
	}
	for i, u := range r.db.uploads {
		if u.UserId == upload.UserId && u.VisaAppId == upload.VisaAppId && u.EvidenceId == upload.EvidenceId {
			upload.Id = u.Id
			upload.CreatedAt = u.CreatedAt
			copied := *upload
			r.db.uploads[i] = &copied
			return nil
		}
	}
	upload.CreatedAt = r.db.tick()
	copied := *upload
	r.db.uploads = append(r.db.uploads, &copied)
	return nil
}

func (r *fakeUploadRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EvidenceUpload, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeUploadRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EvidenceUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.EvidenceUpload
	for _, u := range filterRows(r.db.uploads, uploadRow, specs) {
		copied := *u
		copied.Files = append([]entity.EvidenceFile(nil), u.Files...)
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUploadRepo) UpdateFiles(ctx context.Context, id uuid.UUID, files []entity.EvidenceFile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.uploads {
		if u.Id == id {
			u.Files = append([]entity.EvidenceFile(nil), files...)
		}
	}
	return nil
}

type fakeTaskRepo struct{ db *fakeDB }

func (r *fakeTaskRepo) Create(ctx context.Context, task *entity.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failTaskCreate {
		return errBoom
	}
	task.CreatedAt = r.db.tick()
	copied := *task
	r.db.tasks = append(r.db.tasks, &copied)
	return nil
}

func (r *fakeTaskRepo) CreateBatch(ctx context.Context, tasks []*entity.Task) error {
	for _, t := range tasks {
		if err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTaskRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Task
	for _, t := range filterRows(r.db.tasks, taskRow, specs) {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTaskRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TaskStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.tasks {
		if t.Id == id {
			t.Status = status
		}
	}
	return nil
}

func (r *fakeTaskRepo) MarkDoneWhereTitleContains(ctx context.Context, visaAppID uuid.UUID, fragment string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, t := range r.db.tasks {
		if t.VisaAppId == visaAppID && t.Status != entity.TaskStatusDone &&
			strings.Contains(strings.ToLower(t.Title), strings.ToLower(fragment)) {
			t.Status = entity.TaskStatusDone
			n++
		}
	}
	return n, nil
}

// fakeStore records uploads and signs keys deterministically.
type fakeStore struct {
	puts    map[string][]byte
	signed  []string
	failPut bool
	failSig bool
}

func newFakeStore() *fakeStore { return &fakeStore{puts: map[string][]byte{}} }

func (s *fakeStore) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if s.failPut {
		return errBoom
	}
	s.puts[bucket+"/"+key] = body
	return nil
}

func (s *fakeStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if s.failSig {
		return "", errBoom
	}
	s.signed = append(s.signed, key)
	return "https://storage.test/" + bucket + "/" + key + "?token=signed", nil
}

type fakeGateway struct {
	event         *billing.Event
	parseErr      error
	customerEmail string
	customerErr   error
	checkoutReq   *billing.CheckoutRequest
}

func (g *fakeGateway) ParseEvent(payload []byte, signature string) (*billing.Event, error) {
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	return g.event, nil
}

func (g *fakeGateway) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	return g.customerEmail, g.customerErr
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	g.checkoutReq = &req
	return &billing.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

// fakeLLM answers with a fixed reply and remembers the last history it saw.
type fakeLLM struct {
	reply   string
	err     error
	history []llm.Message
	opts    *llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.history = history
	f.opts = llm.ApplyOptions(0.7, options...)
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return f.text, f.err
}

type fakePublisher struct {
	topics   []string
	payloads []interface{}
	err      error
}

func (p *fakePublisher) Publish(topic string, payload interface{}) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return p.err
}

type fakeEvents struct {
	mu   sync.Mutex
	sent []events.Event
	err  error
}

func (p *fakeEvents) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, event)
	return p.err
}

func (p *fakeEvents) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, e := range p.sent {
		out = append(out, e.EventType())
	}
	return out
}

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*webref.Reference, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &webref.Reference{URL: rawURL, Title: "Official page", Text: "Current figures.", FetchedAt: fixedNow}, nil
}

type mapCache map[string]webref.Reference

func (c mapCache) Get(url string) (webref.Reference, bool) {
	ref, ok := c[url]
	return ref, ok
}

func (c mapCache) Set(url string, ref webref.Reference) { c[url] = ref }

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (c *fakeCounter) Increment(ctx context.Context, key string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[key]++
	return c.counts[key], nil
}

func (c *fakeCounter) Count(ctx context.Context, key string) (int64, error) {
	return c.counts[key], c.err
}
