package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/agegap/internal/app"
)

// queryInt reads an optional integer parameter. Missing or empty means 0.
func queryInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
	}
	return v, nil
}

// figureRequest decodes age_lo, age_hi, countries (repeated) and show_text.
func figureRequest(q url.Values) (service.FigureRequest, error) {
	var (
		req service.FigureRequest
		err error
	)
	if req.AgeLo, err = queryInt(q, "age_lo"); err != nil {
		return req, err
	}
	if req.AgeHi, err = queryInt(q, "age_hi"); err != nil {
		return req, err
	}
	for _, c := range q["countries"] {
		if c = strings.TrimSpace(c); c != "" {
			req.Countries = append(req.Countries, c)
		}
	}
	if raw := q.Get("show_text"); raw != "" {
		show, perr := strconv.ParseBool(raw)
		if perr != nil {
			return req, fmt.Errorf("%w: show_text must be a boolean", ErrBadRequest)
		}
		req.ShowText = &show
	}
	return req, nil
}

// tableRequest decodes filter_query, sort_by, page and page_size.
func tableRequest(q url.Values) (service.TableRequest, error) {
	req := service.TableRequest{
		FilterQuery: q.Get("filter_query"),
		SortBy:      q.Get("sort_by"),
	}
	var err error
	if req.Page, err = queryInt(q, "page"); err != nil {
		return req, err
	}
	if req.PageSize, err = queryInt(q, "page_size"); err != nil {
		return req, err
	}
	return req, nil
}
