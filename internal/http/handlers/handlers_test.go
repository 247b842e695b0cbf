package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/ai"
	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

// stubSvc implements every handler service contract through optional function
// fields, so each test scripts exactly the calls it cares about. Resolve
// defaults to a plain student profile.
type stubSvc struct {
	resolve       func(ctx context.Context, externalID string) (*domain.User, error)
	createGroup   func(ctx context.Context, userID string, in services.CreateGroupInput) (*domain.StudyGroup, string, error)
	getByCode     func(ctx context.Context, code, viewerID string) (*services.GroupPreview, error)
	joinByCode    func(ctx context.Context, userID, code string) (*domain.StudyGroup, *domain.GroupMember, error)
	joinByID      func(ctx context.Context, userID, groupID string) (*domain.StudyGroup, *domain.GroupMember, error)
	listActive    func(ctx context.Context) ([]domain.StudyGroup, error)
	rank          func(ctx context.Context, req services.MatchRequest) ([]ai.GroupMatch, error)
	quiz          func(ctx context.Context, resourceID string, n int) ([]ai.QuizQuestion, bool, error)
	summary       func(ctx context.Context, resourceID string) (*ai.Summary, bool, error)
	examQuestions func(ctx context.Context, resourceID string) ([]ai.ExamQuestion, bool, error)
	createRes     func(ctx context.Context, u *domain.User, in services.CreateResourceInput) (*domain.Resource, error)
	listPage      func(ctx context.Context, page, pageSize int) ([]domain.Resource, int64, error)
	download      func(ctx context.Context, u *domain.User, resourceID string) (*services.DownloadResult, error)
	createBooking func(ctx context.Context, u *domain.User, in services.CreateBookingInput) (*domain.Booking, error)
	listBookings  func(ctx context.Context, userID string) ([]domain.Booking, error)
	verify        func(ctx context.Context, u *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error)
	approve       func(ctx context.Context, admin *domain.User, topperID string, approved bool) (*domain.User, error)
}

var testUser = &domain.User{ID: "u-1", ExternalID: "ext-1", Role: domain.RoleStudent}

func (s *stubSvc) Resolve(ctx context.Context, externalID string) (*domain.User, error) {
	if s.resolve != nil {
		return s.resolve(ctx, externalID)
	}
	return testUser, nil
}

func (s *stubSvc) Create(ctx context.Context, userID string, in services.CreateGroupInput) (*domain.StudyGroup, string, error) {
	return s.createGroup(ctx, userID, in)
}
func (s *stubSvc) GetByCode(ctx context.Context, code, viewerID string) (*services.GroupPreview, error) {
	return s.getByCode(ctx, code, viewerID)
}
func (s *stubSvc) JoinByCode(ctx context.Context, userID, code string) (*domain.StudyGroup, *domain.GroupMember, error) {
	return s.joinByCode(ctx, userID, code)
}
func (s *stubSvc) JoinByID(ctx context.Context, userID, groupID string) (*domain.StudyGroup, *domain.GroupMember, error) {
	return s.joinByID(ctx, userID, groupID)
}
func (s *stubSvc) ListActive(ctx context.Context) ([]domain.StudyGroup, error) {
	return s.listActive(ctx)
}
func (s *stubSvc) Rank(ctx context.Context, req services.MatchRequest) ([]ai.GroupMatch, error) {
	return s.rank(ctx, req)
}
func (s *stubSvc) Quiz(ctx context.Context, resourceID string, n int) ([]ai.QuizQuestion, bool, error) {
	return s.quiz(ctx, resourceID, n)
}
func (s *stubSvc) Summary(ctx context.Context, resourceID string) (*ai.Summary, bool, error) {
	return s.summary(ctx, resourceID)
}
func (s *stubSvc) ExamQuestions(ctx context.Context, resourceID string) ([]ai.ExamQuestion, bool, error) {
	return s.examQuestions(ctx, resourceID)
}
func (s *stubSvc) ListPage(ctx context.Context, page, pageSize int) ([]domain.Resource, int64, error) {
	return s.listPage(ctx, page, pageSize)
}
func (s *stubSvc) Download(ctx context.Context, u *domain.User, resourceID string) (*services.DownloadResult, error) {
	return s.download(ctx, u, resourceID)
}
func (s *stubSvc) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.listBookings(ctx, userID)
}
func (s *stubSvc) Verify(ctx context.Context, u *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error) {
	return s.verify(ctx, u, cgpa, transcriptURL)
}
func (s *stubSvc) Approve(ctx context.Context, admin *domain.User, topperID string, approved bool) (*domain.User, error) {
	return s.approve(ctx, admin, topperID, approved)
}

// resourceStub adapts stubSvc to the ResourceService interface, whose Create
// signature collides with GroupService.Create.
type resourceStub struct{ *stubSvc }

func (r resourceStub) Create(ctx context.Context, u *domain.User, in services.CreateResourceInput) (*domain.Resource, error) {
	return r.createRes(ctx, u, in)
}

// bookingStub adapts stubSvc to the BookingService interface for the same
// reason.
type bookingStub struct{ *stubSvc }

func (b bookingStub) Create(ctx context.Context, u *domain.User, in services.CreateBookingInput) (*domain.Booking, error) {
	return b.createBooking(ctx, u, in)
}

func newTestRouter(s *stubSvc) *gin.Engine {
	h := New(s, s, s, s, resourceStub{s}, bookingStub{s}, s)
	r := gin.New()
	r.POST("/groups", h.CreateGroup)
	r.GET("/groups", h.ListGroups)
	r.POST("/groups/join", h.JoinGroupByCode)
	r.GET("/groups/join", h.GetGroupByCode)
	r.POST("/groups/:id/join", h.JoinGroupByID)
	r.POST("/ai/match-groups", h.MatchGroups)
	r.POST("/ai/quiz", h.GenerateQuiz)
	r.POST("/ai/summary", h.GenerateSummary)
	r.POST("/ai/exam-questions", h.GenerateExamQuestions)
	r.POST("/resources", h.CreateResource)
	r.GET("/resources", h.ListResources)
	r.POST("/resources/:id/download", h.DownloadResource)
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings", h.ListBookings)
	r.POST("/toppers/verify", h.VerifyTopper)
	r.PATCH("/toppers/:id/approve", h.ApproveTopper)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "ext-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, w.Body.String())
	}
	return e
}

// --- groups ---

func TestCreateGroup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := &stubSvc{createGroup: func(ctx context.Context, userID string, in services.CreateGroupInput) (*domain.StudyGroup, string, error) {
			if userID != testUser.ID || in.Name != "OS crew" || in.MaxMembers != 8 {
				t.Fatalf("unexpected input: user=%q in=%+v", userID, in)
			}
			return &domain.StudyGroup{ID: "g1", Name: in.Name, JoinCode: "ABCD1234"}, "http://app/groups/join/ABCD1234", nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/groups", `{"name":"OS crew","max_members":8}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp CreateGroupResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.JoinCode != "ABCD1234" || resp.JoinLink != "http://app/groups/join/ABCD1234" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.Message != "Study group created successfully" {
			t.Fatalf("unexpected message: %q", resp.Message)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		s := &stubSvc{}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/groups", `{"description":"no name"}`)
		if w.Code != http.StatusBadRequest || decodeErr(t, w).Code != ErrCodeBadRequest {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("no profile", func(t *testing.T) {
		s := &stubSvc{resolve: func(ctx context.Context, externalID string) (*domain.User, error) {
			return nil, services.ErrProfileNotFound
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/groups", `{"name":"x","max_members":4}`)
		if w.Code != http.StatusNotFound || decodeErr(t, w).Code != ErrCodeProfileNotFound {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("join code exhausted", func(t *testing.T) {
		s := &stubSvc{createGroup: func(ctx context.Context, userID string, in services.CreateGroupInput) (*domain.StudyGroup, string, error) {
			return nil, "", services.ErrJoinCodeExhausted
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/groups", `{"name":"x","max_members":4}`)
		if w.Code != http.StatusInternalServerError || decodeErr(t, w).Code != ErrCodeJoinCodeFailed {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

func TestJoinGroupByCode_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid code", services.ErrInvalidJoinCode, http.StatusNotFound, ErrCodeInvalidJoinCode},
		{"group full", services.ErrGroupFull, http.StatusBadRequest, ErrCodeGroupFull},
		{"already member", services.ErrAlreadyMember, http.StatusBadRequest, ErrCodeAlreadyMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &stubSvc{joinByCode: func(ctx context.Context, userID, code string) (*domain.StudyGroup, *domain.GroupMember, error) {
				return nil, nil, tc.err
			}}
			w := doJSON(t, newTestRouter(s), http.MethodPost, "/groups/join", `{"join_code":"ABCD1234"}`)
			if w.Code != tc.wantStatus || decodeErr(t, w).Code != tc.wantCode {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		s := &stubSvc{joinByCode: func(ctx context.Context, userID, code string) (*domain.StudyGroup, *domain.GroupMember, error) {
			return &domain.StudyGroup{ID: "g1"}, &domain.GroupMember{ID: "m1", UserID: userID}, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/groups/join", `{"join_code":"abcd1234"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp JoinGroupResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Member.UserID != testUser.ID {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}
	})
}

func TestGetGroupByCode(t *testing.T) {
	s := &stubSvc{getByCode: func(ctx context.Context, code, viewerID string) (*services.GroupPreview, error) {
		if code == "" {
			return nil, services.ErrJoinCodeRequired
		}
		return &services.GroupPreview{
			Group:          &domain.StudyGroup{ID: "g1", JoinCode: code},
			MemberCount:    2,
			AvailableSpots: 3,
		}, nil
	}}
	r := newTestRouter(s)

	t.Run("code param", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/groups/join?code=ABCD1234", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
	t.Run("joinCode fallback", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/groups/join?joinCode=ABCD1234", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
	t.Run("missing", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/groups/join", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

// --- matching ---

func TestMatchGroups(t *testing.T) {
	s := &stubSvc{rank: func(ctx context.Context, req services.MatchRequest) ([]ai.GroupMatch, error) {
		if len(req.Subjects) != 1 || req.Subjects[0] != "DBMS" {
			t.Fatalf("unexpected request: %+v", req)
		}
		return []ai.GroupMatch{{GroupID: "g1", MatchScore: 0.7}}, nil
	}}
	w := doJSON(t, newTestRouter(s), http.MethodPost, "/ai/match-groups", `{"subjects":["DBMS"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp MatchGroupsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Matches) != 1 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

// --- AI content ---

func TestGenerateQuiz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := &stubSvc{quiz: func(ctx context.Context, resourceID string, n int) ([]ai.QuizQuestion, bool, error) {
			if resourceID != "r1" || n != 3 {
				t.Fatalf("unexpected args: %q %d", resourceID, n)
			}
			return []ai.QuizQuestion{{Question: "Q"}}, true, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/ai/quiz", `{"resource_id":"r1","num_questions":3}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp QuizResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.Cached {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}
	})

	t.Run("missing resource id", func(t *testing.T) {
		w := doJSON(t, newTestRouter(&stubSvc{}), http.MethodPost, "/ai/quiz", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("resource not found", func(t *testing.T) {
		s := &stubSvc{quiz: func(ctx context.Context, resourceID string, n int) ([]ai.QuizQuestion, bool, error) {
			return nil, false, services.ErrResourceNotFound
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/ai/quiz", `{"resource_id":"r1"}`)
		if w.Code != http.StatusNotFound || decodeErr(t, w).Code != ErrCodeNotFound {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("unparseable model output", func(t *testing.T) {
		s := &stubSvc{quiz: func(ctx context.Context, resourceID string, n int) ([]ai.QuizQuestion, bool, error) {
			return nil, false, &ai.ParseError{Raw: "nonsense"}
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/ai/quiz", `{"resource_id":"r1"}`)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d", w.Code)
		}
		e := decodeErr(t, w)
		if e.Code != ErrCodeGenerationFailed || e.Message != "model returned an unusable response" {
			t.Fatalf("unexpected envelope: %+v", e)
		}
	})
}

func TestGenerateSummaryAndExamQuestions(t *testing.T) {
	s := &stubSvc{
		summary: func(ctx context.Context, resourceID string) (*ai.Summary, bool, error) {
			return &ai.Summary{Summary: []string{"point"}}, false, nil
		},
		examQuestions: func(ctx context.Context, resourceID string) ([]ai.ExamQuestion, bool, error) {
			return []ai.ExamQuestion{{Question: "Q1"}}, false, nil
		},
	}
	r := newTestRouter(s)

	if w := doJSON(t, r, http.MethodPost, "/ai/summary", `{"resource_id":"r1"}`); w.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", w.Code, w.Body.String())
	}
	w := doJSON(t, r, http.MethodPost, "/ai/exam-questions", `{"resource_id":"r1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("exam status = %d, body %s", w.Code, w.Body.String())
	}
	var resp ExamQuestionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Questions) != 1 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

// --- resources ---

func TestCreateResource(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		s := &stubSvc{createRes: func(ctx context.Context, u *domain.User, in services.CreateResourceInput) (*domain.Resource, error) {
			return &domain.Resource{ID: "r1", Title: in.Title, Price: in.Price}, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/resources", `{"title":"notes","file_url":"https://blob/x.pdf","price":49}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("not a verified topper", func(t *testing.T) {
		s := &stubSvc{createRes: func(ctx context.Context, u *domain.User, in services.CreateResourceInput) (*domain.Resource, error) {
			return nil, services.ErrNotVerifiedTopper
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/resources", `{"title":"notes","file_url":"u"}`)
		if w.Code != http.StatusForbidden || decodeErr(t, w).Code != ErrCodeForbidden {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

func TestListResources_Pagination(t *testing.T) {
	s := &stubSvc{listPage: func(ctx context.Context, page, pageSize int) ([]domain.Resource, int64, error) {
		if page != 2 || pageSize != 10 {
			t.Fatalf("unexpected paging: %d/%d", page, pageSize)
		}
		return []domain.Resource{{ID: "r1"}}, 25, nil
	}}
	w := doJSON(t, newTestRouter(s), http.MethodGet, "/resources?page=2&page_size=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp ListResourcesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := resp.Pagination
	if p.Page != 2 || p.PageSize != 10 || p.Total != 25 || p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestDownloadResource(t *testing.T) {
	t.Run("granted", func(t *testing.T) {
		s := &stubSvc{download: func(ctx context.Context, u *domain.User, resourceID string) (*services.DownloadResult, error) {
			return &services.DownloadResult{FileURL: "https://blob/x.pdf", DownloadCount: 7}, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/resources/r1/download", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp DownloadResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.DownloadURL != "https://blob/x.pdf" || resp.DownloadCount != 7 {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}
	})

	t.Run("not purchased", func(t *testing.T) {
		s := &stubSvc{download: func(ctx context.Context, u *domain.User, resourceID string) (*services.DownloadResult, error) {
			return nil, services.ErrNotPurchased
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/resources/r1/download", "")
		if w.Code != http.StatusForbidden || decodeErr(t, w).Code != ErrCodeNotPurchased {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

// --- bookings ---

func TestCreateBooking(t *testing.T) {
	body := `{"topper_id":"t1","duration_minutes":60,"scheduled_at":"2026-09-12T17:00:00Z"}`

	t.Run("created", func(t *testing.T) {
		s := &stubSvc{createBooking: func(ctx context.Context, u *domain.User, in services.CreateBookingInput) (*domain.Booking, error) {
			want := time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC)
			if in.TopperID != "t1" || in.DurationMinutes != 60 || !in.ScheduledAt.Equal(want) {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Booking{ID: "b1", Price: 100}, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/bookings", body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("topper cannot book", func(t *testing.T) {
		s := &stubSvc{createBooking: func(ctx context.Context, u *domain.User, in services.CreateBookingInput) (*domain.Booking, error) {
			return nil, services.ErrNotStudent
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/bookings", body)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid topper", func(t *testing.T) {
		s := &stubSvc{createBooking: func(ctx context.Context, u *domain.User, in services.CreateBookingInput) (*domain.Booking, error) {
			return nil, services.ErrInvalidTopper
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/bookings", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

// --- toppers ---

func TestVerifyTopper(t *testing.T) {
	t.Run("auto verified", func(t *testing.T) {
		s := &stubSvc{verify: func(ctx context.Context, u *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error) {
			return &domain.User{ID: u.ID, Role: domain.RoleTopper, IsVerified: true}, false, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/toppers/verify", `{"cgpa":9.4}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp VerifyTopperResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.RequiresApproval || resp.Message != "You have been verified as a topper!" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("pending approval", func(t *testing.T) {
		s := &stubSvc{verify: func(ctx context.Context, u *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error) {
			return &domain.User{ID: u.ID, Role: domain.RoleTopper}, true, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/toppers/verify", `{"cgpa":8.1}`)
		var resp VerifyTopperResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.RequiresApproval || resp.Message != "Your verification request has been submitted for admin review." {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("invalid cgpa", func(t *testing.T) {
		s := &stubSvc{verify: func(ctx context.Context, u *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error) {
			return nil, false, services.ErrInvalidCGPA
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPost, "/toppers/verify", `{"cgpa":11}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

func TestApproveTopper(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		s := &stubSvc{approve: func(ctx context.Context, admin *domain.User, topperID string, approved bool) (*domain.User, error) {
			if topperID != "t1" || !approved {
				t.Fatalf("unexpected args: %q %v", topperID, approved)
			}
			return &domain.User{ID: topperID, Role: domain.RoleTopper, IsVerified: true}, nil
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPatch, "/toppers/t1/approve", `{"approved":true}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("not admin", func(t *testing.T) {
		s := &stubSvc{approve: func(ctx context.Context, admin *domain.User, topperID string, approved bool) (*domain.User, error) {
			return nil, services.ErrNotAdmin
		}}
		w := doJSON(t, newTestRouter(s), http.MethodPatch, "/toppers/t1/approve", `{"approved":false}`)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing decision", func(t *testing.T) {
		w := doJSON(t, newTestRouter(&stubSvc{}), http.MethodPatch, "/toppers/t1/approve", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})
}
