package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clin/clin/internal/domain/healthcondition"
	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/auth"
	"github.com/clin/clin/pkg/cpf"
	"github.com/clin/clin/pkg/pagination"
)

const (
	validCPF      = "529.982.247-25"
	otherValidCPF = "11144477735"
	thirdValidCPF = "12345678909"
	badCPF        = "52998224724"
)

// -- Mock Repository --

type mockRepo struct {
	genders  map[int]string
	doctors  map[uuid.UUID]string
	patients map[uuid.UUID]*Patient
	failList error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		genders:  map[int]string{1: "Masculino", 2: "Feminino", 3: "Outro"},
		doctors:  make(map[uuid.UUID]string),
		patients: make(map[uuid.UUID]*Patient),
	}
}

func (m *mockRepo) hydrate(p *Patient) *Patient {
	cp := *p
	cp.Gender = m.genders[p.GenderID]
	cp.Doctor = nil
	if p.UserID != nil {
		if name, ok := m.doctors[*p.UserID]; ok {
			cp.Doctor = &name
		}
	}
	return &cp
}

func (m *mockRepo) GenderExists(_ context.Context, id int) (bool, error) {
	_, ok := m.genders[id]
	return ok, nil
}

func (m *mockRepo) ListGenders(_ context.Context) ([]Gender, error) {
	out := []Gender{}
	for id, d := range m.genders {
		out = append(out, Gender{ID: id, Description: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if existing.CPF == p.CPF {
			return ErrCPFTaken
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrate(p), nil
}

func (m *mockRepo) GetByCPF(_ context.Context, digits string) (*Patient, error) {
	for _, p := range m.patients {
		if p.CPF == digits {
			return m.hydrate(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) sorted() []*Patient {
	out := []*Patient{}
	for _, p := range m.patients {
		out = append(out, m.hydrate(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToUpper(out[i].Name) < strings.ToUpper(out[j].Name)
	})
	return out
}

func (m *mockRepo) List(_ context.Context) ([]*Patient, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	return m.sorted(), nil
}

func (m *mockRepo) LazyList(_ context.Context, p pagination.Params, doctorID *uuid.UUID) ([]*Patient, int, error) {
	if m.failList != nil {
		return nil, 0, m.failList
	}
	term := strings.ToLower(p.Search)
	var matched []*Patient
	for _, pt := range m.sorted() {
		if doctorID != nil && (pt.UserID == nil || *pt.UserID != *doctorID) {
			continue
		}
		if term != "" {
			doctor := ""
			if pt.Doctor != nil {
				doctor = *pt.Doctor
			}
			hay := strings.ToLower(strings.Join([]string{pt.Name, pt.Birthday.Format(DisplayDateLayout), pt.CPF, pt.Gender, doctor}, "|"))
			if !strings.Contains(hay, term) {
				continue
			}
		}
		matched = append(matched, pt)
	}
	return pagination.Window(matched, p), len(matched), nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.patients {
		if existing.ID != p.ID && existing.CPF == p.CPF {
			return ErrCPFTaken
		}
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

// -- Mock Conditions --

type mockConditions struct {
	byPatient map[uuid.UUID][]*healthcondition.HealthCondition
	deleteErr error
}

func newMockConditions() *mockConditions {
	return &mockConditions{byPatient: make(map[uuid.UUID][]*healthcondition.HealthCondition)}
}

func (m *mockConditions) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*healthcondition.HealthCondition, error) {
	items := m.byPatient[patientID]
	if items == nil {
		items = []*healthcondition.HealthCondition{}
	}
	return items, nil
}

func (m *mockConditions) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.byPatient, patientID)
	return nil
}

// recordTx runs fn directly and counts transactions.
type recordTx struct {
	calls int
}

func (r *recordTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc        *Service
	repo       *mockRepo
	conditions *mockConditions
	tx         *recordTx
	doctor     auth.RequestContext
	admin      auth.RequestContext
}

func newFixture() *fixture {
	repo := newMockRepo()
	conditions := newMockConditions()
	tx := &recordTx{}
	svc := NewService(repo, conditions, tx, auth.DefaultPolicy(), zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	doctor := auth.RequestContext{UserID: uuid.New(), Name: "Dra. Helena"}
	admin := auth.RequestContext{UserID: uuid.New(), Name: "Admin", Admin: true}
	repo.doctors[doctor.UserID] = doctor.Name
	repo.doctors[admin.UserID] = admin.Name

	return &fixture{svc: svc, repo: repo, conditions: conditions, tx: tx, doctor: doctor, admin: admin}
}

func (f *fixture) create(t *testing.T, rc auth.RequestContext, name, birthday, cpfNumber string) *View {
	t.Helper()
	v, err := f.svc.Create(context.Background(), rc, CreateRequest{Name: name, Birthday: birthday, GenderID: 2, CPF: cpfNumber})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return v
}

func TestAge(t *testing.T) {
	tests := []struct {
		birthday time.Time
		want     int
	}{
		{time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC), 33},
		{time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC), 33},
		{time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		if got := Age(tt.birthday, fixedNow); got != tt.want {
			t.Errorf("Age(%s) = %d, want %d", tt.birthday.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestParseBirthday(t *testing.T) {
	for _, in := range []string{"1990-03-25", "25/03/1990", "1990-03-25T10:00:00-03:00"} {
		got, ok := ParseBirthday(in)
		if !ok {
			t.Errorf("ParseBirthday(%q) failed", in)
			continue
		}
		if got.Format("2006-01-02") != "1990-03-25" {
			t.Errorf("ParseBirthday(%q) = %s", in, got)
		}
	}
	if _, ok := ParseBirthday("03/25/1990"); ok {
		t.Error("expected month 25 to fail")
	}
}

func TestCreate(t *testing.T) {
	f := newFixture()

	v := f.create(t, f.doctor, "  maria silva ", "1990-03-25", validCPF)
	if v.Name != "MARIA SILVA" {
		t.Errorf("expected upper-cased name, got %q", v.Name)
	}
	if v.Birthday != "25/03/1990" {
		t.Errorf("expected dd/MM/yyyy birthday, got %q", v.Birthday)
	}
	if v.Age != 34 {
		t.Errorf("expected age 34, got %d", v.Age)
	}
	if v.CPF != "529.982.247-25" {
		t.Errorf("expected formatted cpf, got %q", v.CPF)
	}
	if v.Gender != "Feminino" || v.GenderID != 2 {
		t.Errorf("unexpected gender %d %q", v.GenderID, v.Gender)
	}
	if v.UserID == nil || *v.UserID != f.doctor.UserID || v.Doctor == nil || *v.Doctor != "Dra. Helena" {
		t.Errorf("expected patient owned by the creating doctor, got %+v", v)
	}
	if stored := f.repo.patients[v.ID]; stored.CPF != cpf.Normalize(validCPF) {
		t.Errorf("expected cpf stored as digits, got %q", stored.CPF)
	}
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture()
	f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)

	tests := []struct {
		name    string
		req     CreateRequest
		message string
	}{
		{"missing name", CreateRequest{Birthday: "1990-01-01", GenderID: 1, CPF: otherValidCPF}, "Validation failed"},
		{"zero gender", CreateRequest{Name: "A", Birthday: "1990-01-01", GenderID: 0, CPF: otherValidCPF}, "Validation failed"},
		{"negative gender", CreateRequest{Name: "A", Birthday: "1990-01-01", GenderID: -1, CPF: otherValidCPF}, "Validation failed"},
		{"bad birthday", CreateRequest{Name: "A", Birthday: "yesterday", GenderID: 1, CPF: otherValidCPF}, "Validation failed"},
		{"future birthday", CreateRequest{Name: "A", Birthday: "2030-01-01", GenderID: 1, CPF: otherValidCPF}, "Validation failed"},
		{"unknown gender", CreateRequest{Name: "A", Birthday: "1990-01-01", GenderID: 9, CPF: otherValidCPF}, "Gender does not exist"},
		{"invalid cpf", CreateRequest{Name: "A", Birthday: "1990-01-01", GenderID: 1, CPF: badCPF}, "Invalid CPF"},
		{"duplicate cpf", CreateRequest{Name: "A", Birthday: "1990-01-01", GenderID: 1, CPF: "52998224725"}, "Patient already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.doctor, tt.req)
			if apperr.KindOf(err).Status() != 412 {
				t.Fatalf("expected 412, got %v", err)
			}
			var ae *apperr.Error
			if !errors.As(err, &ae) || ae.Message != tt.message {
				t.Errorf("expected %q, got %v", tt.message, err)
			}
		})
	}

	if len(f.repo.patients) != 1 {
		t.Errorf("expected no rows inserted, got %d patients", len(f.repo.patients))
	}
}

func TestList_SortedByName(t *testing.T) {
	f := newFixture()
	f.create(t, f.doctor, "carlos", "1980-01-01", validCPF)
	f.create(t, f.admin, "Ana", "1981-01-01", otherValidCPF)
	f.create(t, f.doctor, "bruno", "1982-01-01", thirdValidCPF)

	views, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, v := range views {
		names = append(names, v.Name)
	}
	if strings.Join(names, ",") != "ANA,BRUNO,CARLOS" {
		t.Errorf("unexpected order %v", names)
	}
}

func TestLazyList_DoctorScoped(t *testing.T) {
	f := newFixture()
	f.create(t, f.doctor, "carlos", "1980-01-01", validCPF)
	f.create(t, f.admin, "Ana", "1981-01-01", otherValidCPF)
	f.create(t, f.doctor, "bruno", "1982-01-01", thirdValidCPF)

	views, total, err := f.svc.LazyList(context.Background(), f.doctor, pagination.Params{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("lazy list: %v", err)
	}
	if total != 2 || len(views) != 2 {
		t.Fatalf("expected 2 own patients, got %d", total)
	}
	for _, v := range views {
		if *v.UserID != f.doctor.UserID {
			t.Errorf("patient %s belongs to another doctor", v.Name)
		}
	}

	all, total, err := f.svc.LazyListAll(context.Background(), pagination.Params{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("lazy list all: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("expected all 3 patients, got %d", total)
	}
}

func TestLazyList_Search(t *testing.T) {
	f := newFixture()
	f.create(t, f.doctor, "carlos", "1980-01-01", validCPF)
	f.create(t, f.doctor, "bruno", "1982-05-07", thirdValidCPF)

	tests := []struct {
		term string
		want string
	}{
		{"CARL", "CARLOS"},
		{"07/05/1982", "BRUNO"},
		{"123456", "BRUNO"},
	}
	for _, tt := range tests {
		views, _, err := f.svc.LazyList(context.Background(), f.doctor, pagination.Params{Page: 1, PerPage: 10, Search: tt.term})
		if err != nil {
			t.Fatalf("search %q: %v", tt.term, err)
		}
		if len(views) != 1 || views[0].Name != tt.want {
			t.Errorf("search %q: expected %s, got %+v", tt.term, tt.want, views)
		}
	}
}

func TestLazyList_SecondPage(t *testing.T) {
	f := newFixture()
	for i := 0; i < 25; i++ {
		p := &Patient{
			Name:     string(rune('a'+i)) + " patient",
			Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			GenderID: 1,
			CPF:      uuid.NewString(),
			UserID:   &f.doctor.UserID,
		}
		if err := f.repo.Create(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, _ := f.svc.List(context.Background())
	page, total, err := f.svc.LazyListAll(context.Background(), pagination.Params{Page: 2, PerPage: 10})
	if err != nil {
		t.Fatalf("lazy list: %v", err)
	}
	if total != 25 || len(page) != 10 {
		t.Fatalf("expected 10 of 25, got %d of %d", len(page), total)
	}
	for i := range page {
		if page[i].ID != all[10+i].ID {
			t.Errorf("item %d: expected %s, got %s", i, all[10+i].Name, page[i].Name)
		}
	}
}

func TestGet_WithConditions(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)
	f.conditions.byPatient[v.ID] = []*healthcondition.HealthCondition{
		{ID: uuid.New(), PatientID: v.ID, Description: "asma"},
	}

	got, err := f.svc.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.HealthConditions) != 1 || got.HealthConditions[0].Description != "asma" {
		t.Errorf("expected nested conditions, got %+v", got.HealthConditions)
	}

	_, err = f.svc.Get(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) || err.Error() != "Patient does not exist" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate_AdminOnly(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)
	name := "Joana"

	_, err := f.svc.Update(context.Background(), f.doctor, v.ID, UpdateRequest{Name: &name})
	if !apperr.Is(err, apperr.KindForbidden) || err.Error() != "Only admins can update patient info" {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if f.repo.patients[v.ID].Name != "Maria" {
		t.Error("patient must not change on forbidden update")
	}

	// Policy is checked before existence.
	_, err = f.svc.Update(context.Background(), f.doctor, uuid.New(), UpdateRequest{Name: &name})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for missing patient, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)
	name := "Maria Souza"

	got, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "MARIA SOUZA" || got.Birthday != "25/03/1990" || got.CPF != v.CPF || got.GenderID != v.GenderID {
		t.Errorf("unspecified fields must be kept, got %+v", got)
	}
	if *got.UserID != f.doctor.UserID {
		t.Error("owner must not change on update")
	}
}

func TestUpdate_CPF(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)
	f.create(t, f.doctor, "Joana", "1991-03-25", otherValidCPF)

	bad := badCPF
	if _, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{CPF: &bad}); err == nil || err.Error() != "Invalid CPF" {
		t.Fatalf("expected Invalid CPF, got %v", err)
	}

	taken := otherValidCPF
	if _, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{CPF: &taken}); err == nil || err.Error() != "Patient already exists" {
		t.Fatalf("expected Patient already exists, got %v", err)
	}

	same := "52998224725"
	if _, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{CPF: &same}); err != nil {
		t.Fatalf("unchanged cpf must be accepted: %v", err)
	}

	fresh := thirdValidCPF
	got, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{CPF: &fresh})
	if err != nil {
		t.Fatalf("update cpf: %v", err)
	}
	if got.CPF != "123.456.789-09" {
		t.Errorf("expected new formatted cpf, got %q", got.CPF)
	}
}

func TestUpdate_Gender(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)

	missing := 42
	if _, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{GenderID: &missing}); err == nil || err.Error() != "Gender does not exist" {
		t.Fatalf("expected Gender does not exist, got %v", err)
	}
	zero := 0
	if _, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{GenderID: &zero}); !apperr.Is(err, apperr.KindPreconditionFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	other := 3
	got, err := f.svc.Update(context.Background(), f.admin, v.ID, UpdateRequest{GenderID: &other})
	if err != nil {
		t.Fatalf("update gender: %v", err)
	}
	if got.Gender != "Outro" {
		t.Errorf("expected Outro, got %q", got.Gender)
	}
}

func TestDelete_Cascade(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)
	f.conditions.byPatient[v.ID] = []*healthcondition.HealthCondition{{ID: uuid.New(), PatientID: v.ID, Description: "asma"}}

	err := f.svc.Delete(context.Background(), f.doctor, v.ID)
	if !apperr.Is(err, apperr.KindForbidden) || err.Error() != "Only admins can delete patient" {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, ok := f.repo.patients[v.ID]; !ok {
		t.Fatal("patient must survive forbidden delete")
	}

	if err := f.svc.Delete(context.Background(), f.admin, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.repo.patients[v.ID]; ok {
		t.Error("patient still present")
	}
	if _, ok := f.conditions.byPatient[v.ID]; ok {
		t.Error("conditions still present")
	}
	if f.tx.calls != 1 {
		t.Errorf("expected delete in one transaction, got %d", f.tx.calls)
	}

	if err := f.svc.Delete(context.Background(), f.admin, v.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDelete_ConditionFailureKeepsPatient(t *testing.T) {
	f := newFixture()
	v := f.create(t, f.doctor, "Maria", "1990-03-25", validCPF)
	f.conditions.deleteErr = apperr.Internal(errors.New("boom"))

	if err := f.svc.Delete(context.Background(), f.admin, v.ID); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
	if _, ok := f.repo.patients[v.ID]; !ok {
		t.Error("patient must not be deleted when conditions fail")
	}
}

func TestList_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.failList = errors.New("connection lost")

	if _, err := f.svc.List(context.Background()); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestGenders(t *testing.T) {
	f := newFixture()
	genders, err := f.svc.Genders(context.Background())
	if err != nil {
		t.Fatalf("genders: %v", err)
	}
	if len(genders) != 3 || genders[0].Description != "Masculino" {
		t.Errorf("unexpected genders %+v", genders)
	}
}
