package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"stock-insights/internal/types"
)

type homePage struct {
	Companies      []types.CompanySummary
	TotalCompanies int
	ProcessedCount int
	ShowInsights   bool
	Threshold      int
}

type companyPage struct {
	Company        *types.Company
	Analysis       *types.AnalysisRow
	Pros           []string
	Cons           []string
	ProcessedCount int
	ShowInsights   bool
	Threshold      int
}

type companiesPage struct {
	Companies      []types.CompanySummary
	TotalCompanies int
	Page           int
	TotalPages     int
	HasPrev        bool
	HasNext        bool
	PrevPage       int
	NextPage       int
}

type searchPage struct {
	Query     string
	Searched  bool
	Companies []types.CompanySummary
}

func (s *Server) insightsVisible(processed int) bool {
	return processed >= s.opts.InsightsThreshold
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	companies, err := s.store.ListCompanySummaries(ctx, s.opts.HomeLimit, 0)
	if err != nil {
		s.fail(w, r, "Error loading companies", err)
		return
	}
	total, err := s.store.CountCompanies(ctx)
	if err != nil {
		s.fail(w, r, "Error counting companies", err)
		return
	}
	processed, err := s.store.CountProcessed(ctx)
	if err != nil {
		s.fail(w, r, "Error counting processed companies", err)
		return
	}

	s.render(w, r, "home", homePage{
		Companies:      companies,
		TotalCompanies: total,
		ProcessedCount: processed,
		ShowInsights:   s.insightsVisible(processed),
		Threshold:      s.opts.InsightsThreshold,
	})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	company, err := s.store.GetCompany(ctx, id)
	if errors.Is(err, types.ErrCompanyNotFound) {
		http.Error(w, fmt.Sprintf("Company '%s' not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, r, "Error loading company data", err)
		return
	}

	analysis, err := s.store.GetAnalysis(ctx, id)
	if err != nil {
		s.fail(w, r, "Error loading company data", err)
		return
	}
	pros, cons, err := s.store.GetProsAndCons(ctx, id)
	if err != nil {
		s.fail(w, r, "Error loading company data", err)
		return
	}
	processed, err := s.store.CountProcessed(ctx)
	if err != nil {
		s.fail(w, r, "Error loading company data", err)
		return
	}

	s.render(w, r, "company", companyPage{
		Company:        company,
		Analysis:       analysis,
		Pros:           pros,
		Cons:           cons,
		ProcessedCount: processed,
		ShowInsights:   s.insightsVisible(processed),
		Threshold:      s.opts.InsightsThreshold,
	})
}

// parsePage returns the 1-based page number; anything unparsable or below 1
// is page 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := parsePage(r.URL.Query().Get("page"))
	perPage := s.opts.PageSize

	companies, err := s.store.ListCompanySummaries(ctx, perPage, (page-1)*perPage)
	if err != nil {
		s.fail(w, r, "Error loading companies", err)
		return
	}
	total, err := s.store.CountCompanies(ctx)
	if err != nil {
		s.fail(w, r, "Error counting companies", err)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	s.render(w, r, "companies", companiesPage{
		Companies:      companies,
		TotalCompanies: total,
		Page:           page,
		TotalPages:     totalPages,
		HasPrev:        page > 1,
		HasNext:        page < totalPages,
		PrevPage:       page - 1,
		NextPage:       page + 1,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.render(w, r, "search", searchPage{})
		return
	}

	companies, err := s.store.SearchCompanies(r.Context(), query)
	if err != nil {
		s.fail(w, r, "Error searching companies", err)
		return
	}
	s.render(w, r, "search", searchPage{Query: query, Searched: true, Companies: companies})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
