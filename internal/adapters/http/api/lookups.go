package api

import (
	"net/http"
)

type lookupHandler struct {
	deps Dependencies
}

// HandleYears handles GET /api/years.
func (h *lookupHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.deps.Years()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, years)
}

// HandleCountries handles GET /api/countries.
func (h *lookupHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.deps.Countries()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, countries)
}

// HandleHosts handles GET /api/hosts.
func (h *lookupHandler) HandleHosts(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.deps.Hosts()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hosts)
}

type ageRangeResponse struct {
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	DefaultLo int    `json:"default_lo"`
	DefaultHi int    `json:"default_hi"`
	Lo        int    `json:"lo"`
	Hi        int    `json:"hi"`
	Label     string `json:"label"`
}

// HandleAgeRange handles GET /api/age-range?lo=&hi=. It returns the slider
// bounds and the caption of the selected range; omitted bounds take the defaults.
func (h *lookupHandler) HandleAgeRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lo, err := queryInt(q, "lo")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	hi, err := queryInt(q, "hi")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ar := h.deps.AgeRange()
	if lo == 0 {
		lo = ar.DefaultLo
	}
	if hi == 0 {
		hi = ar.DefaultHi
	}
	label, err := h.deps.AgeRangeLabel(lo, hi)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ageRangeResponse{
		Min: ar.Min, Max: ar.Max, DefaultLo: ar.DefaultLo, DefaultHi: ar.DefaultHi,
		Lo: lo, Hi: hi, Label: label,
	})
}
