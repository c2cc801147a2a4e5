package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MosinFAM/microblog/internal/forms"
	"github.com/MosinFAM/microblog/internal/models"
	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/gin-gonic/gin"
)

func (s *Server) companyList(c *gin.Context) {
	page, err := s.Storage.ListCompanies(c.Request.Context(), pageParam(c), s.perPage())
	if err != nil {
		s.fail(c, err)
		return
	}
	pg := newPager("/company", page, nil)
	s.render(c, http.StatusOK, "company_list.html", gin.H{
		"Title":     "Companies",
		"Companies": page.Items,
		"Page":      page,
		"Pager":     pg,
	})
}

func (s *Server) companyAdd(c *gin.Context) {
	var form forms.CompanyForm
	errs := forms.Errors{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&form); err != nil {
			errs = forms.FromError(err)
		} else {
			if err := s.Storage.AddCompany(c.Request.Context(), companyFromForm(0, form)); err != nil {
				s.fail(c, err)
				return
			}
			addFlash(c, "You have successfully added the company.")
			s.redirect(c, "/company")
			return
		}
	}

	s.render(c, http.StatusOK, "company_form.html", gin.H{
		"Title":  "Add Company",
		"Form":   form,
		"Errors": errs,
	})
}

func (s *Server) companyEdit(c *gin.Context) {
	company, ok := s.loadCompany(c)
	if !ok {
		return
	}

	form := forms.CompanyForm{
		NamesOne:   company.NamesOne,
		NamesTwo:   company.NamesTwo,
		NamesThree: company.NamesThree,
		Branches:   company.Branches,
	}
	errs := forms.Errors{}

	if c.Request.Method == http.MethodPost {
		form = forms.CompanyForm{}
		if err := c.ShouldBind(&form); err != nil {
			errs = forms.FromError(err)
		} else {
			if err := s.Storage.UpdateCompany(c.Request.Context(), companyFromForm(company.ID, form)); err != nil {
				s.fail(c, err)
				return
			}
			addFlash(c, "You have successfully edited the company.")
			s.redirect(c, "/company")
			return
		}
	}

	s.render(c, http.StatusOK, "company_form.html", gin.H{
		"Title":  "Edit Company",
		"Form":   form,
		"Errors": errs,
	})
}

func (s *Server) companyDelete(c *gin.Context) {
	company, ok := s.loadCompany(c)
	if !ok {
		return
	}

	err := s.Storage.DeleteCompany(c.Request.Context(), company.ID)
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(c)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	addFlash(c, "You have successfully deleted the company.")
	s.redirect(c, "/company")
}

// loadCompany resolves the :id parameter, answering 404 for malformed or
// unknown ids.
func (s *Server) loadCompany(c *gin.Context) (*models.Company, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.notFound(c)
		return nil, false
	}
	company, err := s.Storage.GetCompany(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(c)
		return nil, false
	}
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return company, true
}

func companyFromForm(id int64, form forms.CompanyForm) *models.Company {
	return &models.Company{
		ID:         id,
		NamesOne:   form.NamesOne,
		NamesTwo:   form.NamesTwo,
		NamesThree: form.NamesThree,
		Branches:   form.Branches,
	}
}
