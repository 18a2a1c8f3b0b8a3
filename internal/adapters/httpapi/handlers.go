package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/primary"
)

type submitReportBody struct {
	Problem      string   `json:"problem"`
	SourceType   string   `json:"sourceType"`
	SeverityHint string   `json:"severityHint"`
	PinCode      string   `json:"pinCode"`
	LocalityName string   `json:"localityName"`
	District     string   `json:"district"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
}

func (h *Handlers) handleSubmitReport(c *gin.Context) {
	var body submitReportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, faults.NewValidation("body", err.Error()))
		return
	}

	report, err := h.reports.SubmitReport(c.Request.Context(), primary.SubmitReportRequest{
		Problem:      body.Problem,
		SourceType:   body.SourceType,
		SeverityHint: body.SeverityHint,
		PinCode:      body.PinCode,
		LocalityName: body.LocalityName,
		District:     body.District,
		Lat:          body.Lat,
		Lon:          body.Lon,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reportToJSON(report))
}

func (h *Handlers) handleListReports(c *gin.Context) {
	reports, err := h.reports.ListActiveReports(c.Request.Context(), c.Query("district"))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, len(reports))
	for i, r := range reports {
		out[i] = reportToJSON(r)
	}
	c.JSON(http.StatusOK, gin.H{"reports": out})
}

func (h *Handlers) handleGetReport(c *gin.Context) {
	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportToJSON(report))
}

func (h *Handlers) handleUpvoteReport(c *gin.Context) {
	upvotes, err := h.reports.UpvoteReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "upvotes": upvotes})
}

func (h *Handlers) handleListGroups(c *gin.Context) {
	groups, err := h.reports.ListGroups(c.Request.Context(), primary.GroupFilters{
		District:     c.Query("district"),
		EligibleOnly: c.Query("eligible") == "true",
	})
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, len(groups))
	for i, g := range groups {
		out[i] = gin.H{
			"pinCode":      g.PinCode,
			"district":     g.District,
			"localityName": g.LocalityName,
			"count":        g.Count,
			"severityTier": g.SeverityTier,
			"eligible":     g.Eligible,
			"reportIds":    g.ReportIDs,
			"hasGeotagged": g.HasGeotagged,
		}
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

type formatSMSBody struct {
	Problem      string `json:"problem"`
	PinCode      string `json:"pinCode"`
	SeverityHint string `json:"severityHint"`
	SourceType   string `json:"sourceType"`
}

func (h *Handlers) handleFormatSMS(c *gin.Context) {
	var body formatSMSBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, faults.NewValidation("body", err.Error()))
		return
	}

	text, err := h.reports.FormatSMS(primary.SMSRequest{
		Problem:      body.Problem,
		PinCode:      body.PinCode,
		SeverityHint: body.SeverityHint,
		SourceType:   body.SourceType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type escalateBody struct {
	PinCode     string `json:"pinCode"`
	District    string `json:"district"`
	Description string `json:"description"`
	PHCNotes    string `json:"phcNotes"`
}

func (h *Handlers) handleEscalate(c *gin.Context) {
	var body escalateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, faults.NewValidation("body", err.Error()))
		return
	}

	assignment, err := h.escalations.Escalate(c.Request.Context(), primary.EscalateRequest{
		PinCode:     body.PinCode,
		District:    body.District,
		Description: body.Description,
		PHCNotes:    body.PHCNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignmentToJSON(assignment))
}

func (h *Handlers) handleListAssignments(c *gin.Context) {
	assignments, err := h.escalations.ListAssignments(c.Request.Context(), primary.AssignmentFilters{
		District:   c.Query("district"),
		Status:     c.Query("status"),
		ActiveOnly: c.Query("active") == "true",
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignmentsToJSON(assignments)})
}

func (h *Handlers) handleGetAssignment(c *gin.Context) {
	assignment, err := h.escalations.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignmentToJSON(assignment))
}

// handleUploadTestResult stores the uploaded file first; only a completed
// upload with a stable ref may advance the state machine.
func (h *Handlers) handleUploadTestResult(c *gin.Context) {
	ref, err := h.storeUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	assignment, err := h.escalations.UploadTestResult(c.Request.Context(), primary.UploadTestResultRequest{
		AssignmentID:  c.Param("id"),
		TestResultRef: ref,
		LabNotes:      c.PostForm("labNotes"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignmentToJSON(assignment))
}

func (h *Handlers) handleUploadSolution(c *gin.Context) {
	ref, err := h.storeUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	assignment, err := h.escalations.UploadSolution(c.Request.Context(), primary.UploadSolutionRequest{
		AssignmentID:        c.Param("id"),
		SolutionRef:         ref,
		SolutionDescription: c.PostForm("description"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignmentToJSON(assignment))
}

// storeUpload reads the multipart "file" part and persists it to the blob
// store, returning the stable ref.
func (h *Handlers) storeUpload(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", faults.NewValidation("file", "multipart file part is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", faults.NewValidation("file", err.Error())
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		return "", faults.NewValidation("file", err.Error())
	}

	return h.blobs.Put(c.Request.Context(), fileHeader.Filename, contents)
}

type notesBody struct {
	PHCNotes   string `json:"phcNotes"`
	FinalNotes string `json:"finalNotes"`
}

func (h *Handlers) handleMarkCleanByPHC(c *gin.Context) {
	var body notesBody
	_ = c.ShouldBindJSON(&body) // notes are optional

	assignment, err := h.escalations.MarkCleanByPHC(c.Request.Context(), primary.MarkCleanRequest{
		AssignmentID: c.Param("id"),
		PHCNotes:     body.PHCNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignmentToJSON(assignment))
}

func (h *Handlers) handleConfirmClean(c *gin.Context) {
	var body notesBody
	_ = c.ShouldBindJSON(&body)

	assignment, err := h.escalations.ConfirmClean(c.Request.Context(), primary.ConfirmCleanRequest{
		AssignmentID: c.Param("id"),
		FinalNotes:   body.FinalNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignmentToJSON(assignment))
}

func (h *Handlers) handleListSolutions(c *gin.Context) {
	assignments, err := h.escalations.ListSolutions(c.Request.Context(), c.Query("district"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"solutions": assignmentsToJSON(assignments)})
}

func (h *Handlers) handleAreaStatus(c *gin.Context) {
	query, err := parseAreaQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	status, err := h.proximity.AreaStatus(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	out := gin.H{"status": status.Status}
	if status.Nearest != nil {
		out["nearest"] = gin.H{
			"pinCode":      status.Nearest.PinCode,
			"district":     status.Nearest.District,
			"localityName": status.Nearest.LocalityName,
			"distanceKm":   status.Nearest.DistanceKm,
			"severityTier": status.Nearest.SeverityTier,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) handleNearbyReports(c *gin.Context) {
	query, err := parseAreaQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	nearby, err := h.proximity.NearbyReports(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, len(nearby))
	for i, n := range nearby {
		entry := reportToJSON(n.Report)
		entry["distanceKm"] = n.DistanceKm
		out[i] = entry
	}
	c.JSON(http.StatusOK, gin.H{"reports": out})
}

func (h *Handlers) handleHotspots(c *gin.Context) {
	hotspots, err := h.proximity.Hotspots(c.Request.Context(), c.Query("district"))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, len(hotspots))
	for i, hs := range hotspots {
		out[i] = gin.H{
			"reportId":     hs.ReportID,
			"lat":          hs.Lat,
			"lon":          hs.Lon,
			"status":       hs.Status,
			"localityName": hs.LocalityName,
			"severityHint": hs.SeverityHint,
		}
	}
	c.JSON(http.StatusOK, gin.H{"hotspots": out})
}

func (h *Handlers) handleStatistics(c *gin.Context) {
	stats, err := h.stats.GetStatistics(c.Request.Context(), c.Query("district"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalReports":  stats.TotalReports,
		"activeReports": stats.ActiveReports,
		"cleanAreas":    stats.CleanAreas,
	})
}

func parseAreaQuery(c *gin.Context) (primary.AreaQuery, error) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return primary.AreaQuery{}, faults.NewValidation("lat", "must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return primary.AreaQuery{}, faults.NewValidation("lon", "must be a number")
	}

	query := primary.AreaQuery{Lat: lat, Lon: lon}
	if radius := c.Query("radius"); radius != "" {
		r, err := strconv.ParseFloat(radius, 64)
		if err != nil || r <= 0 {
			return primary.AreaQuery{}, faults.NewValidation("radius", "must be a positive number")
		}
		query.RadiusKm = r
	}
	return query, nil
}

func reportToJSON(r *primary.Report) gin.H {
	return gin.H{
		"id":            r.ID,
		"problem":       r.Problem,
		"sourceType":    r.SourceType,
		"severityHint":  r.SeverityHint,
		"pinCode":       r.PinCode,
		"localityName":  r.LocalityName,
		"district":      r.District,
		"lat":           r.Lat,
		"lon":           r.Lon,
		"status":        r.Status,
		"submitterRole": r.SubmitterRole,
		"upvotes":       r.Upvotes,
		"submittedAt":   r.SubmittedAt,
	}
}

func assignmentToJSON(a *primary.Assignment) gin.H {
	return gin.H{
		"id":                  a.ID,
		"pinCode":             a.PinCode,
		"district":            a.District,
		"localityName":        a.LocalityName,
		"description":         a.Description,
		"phcNotes":            a.PHCNotes,
		"labNotes":            a.LabNotes,
		"solutionDescription": a.SolutionDescription,
		"finalNotes":          a.FinalNotes,
		"testResultRef":       a.TestResultRef,
		"solutionRef":         a.SolutionRef,
		"status":              a.Status,
		"reportCount":         a.ReportCount,
		"reportIds":           a.ReportIDs,
		"createdAt":           a.CreatedAt,
		"updatedAt":           a.UpdatedAt,
		"resolvedAt":          a.ResolvedAt,
	}
}

func assignmentsToJSON(assignments []*primary.Assignment) []gin.H {
	out := make([]gin.H, len(assignments))
	for i, a := range assignments {
		out[i] = assignmentToJSON(a)
	}
	return out
}
