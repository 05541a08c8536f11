package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"aspectstudio/internal/connection"
	"aspectstudio/internal/domain"
	"aspectstudio/internal/namespace"
	"aspectstudio/internal/repository"
	"aspectstudio/internal/service"
)

// EditorHandler handles editor API requests
type EditorHandler struct {
	editor     *service.EditorService
	validation *service.ValidationService
	resolver   *namespace.Resolver
	repo       repository.Repository
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(editor *service.EditorService, validation *service.ValidationService) *EditorHandler {
	return &EditorHandler{editor: editor, validation: validation}
}

// SetResolver sets the workspace namespace resolver
func (h *EditorHandler) SetResolver(r *namespace.Resolver) {
	h.resolver = r
}

// SetRepository sets the persistence backend for positions and model files
func (h *EditorHandler) SetRepository(repo repository.Repository) {
	h.repo = repo
}

// ErrorResponse is the JSON body for every non-2xx response. Severity is
// filled for connection rejections so the UI can pick the notification style.
type ErrorResponse struct {
	Error    string `json:"error"`
	Details  string `json:"details,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// GetGraph returns the current visual graph snapshot
func (h *EditorHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// CreateElementRequest names the element to create
type CreateElementRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

// CreateElement creates a new model element and its cell
func (h *EditorHandler) CreateElement(w http.ResponseWriter, r *http.Request) {
	var req CreateElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		h.writeError(w, "Element kind is required", "", http.StatusBadRequest)
		return
	}

	urn, err := h.editor.CreateElement(domain.Kind(req.Kind), req.Name)
	if err != nil {
		h.writeRejection(w, "Failed to create element", err)
		return
	}

	h.writeJSON(w, map[string]string{"urn": urn}, http.StatusCreated)
}

// RenameElement renames an element across the store and the diagram
func (h *EditorHandler) RenameElement(w http.ResponseWriter, r *http.Request) {
	urn := r.PathValue("urn")
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.writeError(w, "New name is required", "", http.StatusBadRequest)
		return
	}

	newURN, err := h.editor.RenameElement(urn, req.Name)
	if err != nil {
		h.writeRejection(w, "Failed to rename element", err)
		return
	}

	h.writeJSON(w, map[string]string{"urn": newURN}, http.StatusOK)
}

// DeleteElement removes one element and its dangling references
func (h *EditorHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	urn := r.PathValue("urn")
	if urn == "" {
		h.writeError(w, "Element URN is required", "", http.StatusBadRequest)
		return
	}
	h.editor.DeleteCells([]string{urn})
	w.WriteHeader(http.StatusNoContent)
}

// ConnectRequest carries a two-element selection plus gesture hints
type ConnectRequest struct {
	Selection  []string `json:"selection"`
	EitherSide string   `json:"either_side,omitempty"`
	Direction  string   `json:"direction,omitempty"`
}

// Connect applies the connection gesture for the selected elements
func (h *EditorHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	info := connection.ModelInfo{EitherSide: req.EitherSide, OperationDirection: req.Direction}
	if err := h.editor.ConnectSelected(req.Selection, info); err != nil {
		h.writeRejection(w, "Cannot connect elements", err)
		return
	}

	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// TriggerOverlay runs an overlay button action on one cell
func (h *EditorHandler) TriggerOverlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URN    string `json:"urn"`
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	urn, err := h.editor.TriggerOverlay(req.URN, req.Action)
	if err != nil {
		h.writeRejection(w, "Overlay action failed", err)
		return
	}

	h.writeJSON(w, map[string]string{"urn": urn}, http.StatusCreated)
}

// RenderElement draws an element subtree onto the canvas
func (h *EditorHandler) RenderElement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URN string `json:"urn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.editor.RenderElement(req.URN); err != nil {
		h.writeRejection(w, "Failed to render element", err)
		return
	}

	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// DeleteCells removes a batch of cells and their model elements
func (h *EditorHandler) DeleteCells(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URNs []string `json:"urns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.URNs) == 0 {
		h.writeError(w, "At least one URN is required", "", http.StatusBadRequest)
		return
	}

	h.editor.DeleteCells(req.URNs)
	w.WriteHeader(http.StatusNoContent)
}

// SavePositions applies dragged cell placements and persists them when a
// repository is configured. The file query parameter scopes persistence.
func (h *EditorHandler) SavePositions(w http.ResponseWriter, r *http.Request) {
	var positions []service.CellPosition
	if err := json.NewDecoder(r.Body).Decode(&positions); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	h.editor.MoveCells(positions)

	if h.repo != nil {
		if fileKey := r.URL.Query().Get("file"); fileKey != "" {
			saved := make([]repository.Position, 0, len(positions))
			for _, p := range positions {
				saved = append(saved, repository.Position{URN: p.URN, X: p.X, Y: p.Y})
			}
			if err := h.repo.SavePositions(r.Context(), fileKey, saved); err != nil {
				log.Printf("Failed to persist positions for %s: %v", fileKey, err)
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetCollapsed toggles the diagram between expanded and collapsed mode
func (h *EditorHandler) SetCollapsed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collapsed bool   `json:"collapsed"`
		Anchor    string `json:"anchor,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	h.editor.SetCollapsed(req.Collapsed, req.Anchor)
	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// Format reflows the diagram, optionally switching layout strategy
func (h *EditorHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout string `json:"layout,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
	}

	h.editor.Format(req.Layout)
	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// ExportModel serializes the current model as Turtle
func (h *EditorHandler) ExportModel(w http.ResponseWriter, r *http.Request) {
	data, err := h.editor.ExportModel()
	if err != nil {
		log.Printf("Failed to export model: %v", err)
		h.writeError(w, "Failed to export model", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/turtle")
	w.Header().Set("Content-Disposition", "attachment; filename=model.ttl")
	w.Write(data)
}

// ImportModel replaces the current model with an uploaded Turtle document
func (h *EditorHandler) ImportModel(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		h.writeError(w, "Model document is empty", "", http.StatusBadRequest)
		return
	}

	if err := h.editor.ImportModel(data); err != nil {
		h.writeError(w, "Failed to parse model", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// NewModel resets the editor to the default starter model
func (h *EditorHandler) NewModel(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.NewDefaultModel(); err != nil {
		log.Printf("Failed to create default model: %v", err)
		h.writeError(w, "Failed to create default model", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, h.editor.Graph(), http.StatusCreated)
}

// Validate starts an async validation run against the configured endpoint
func (h *EditorHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if h.validation == nil {
		h.writeError(w, "Validation not configured", "No validator endpoint is set", http.StatusServiceUnavailable)
		return
	}

	jobID, err := h.validation.Validate(r.Context())
	if err != nil {
		log.Printf("Failed to start validation: %v", err)
		h.writeError(w, "Failed to start validation", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{"job_id": jobID}, http.StatusAccepted)
}

// CancelValidation cancels the in-flight validation run, if any
func (h *EditorHandler) CancelValidation(w http.ResponseWriter, r *http.Request) {
	if h.validation != nil {
		h.validation.Cancel()
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNamespaces returns the workspace namespaces and their model files
func (h *EditorHandler) ListNamespaces(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		h.writeError(w, "Workspace not configured", "No workspace directory is set", http.StatusServiceUnavailable)
		return
	}

	namespaces, err := h.resolver.Namespaces()
	if err != nil {
		log.Printf("Failed to scan workspace: %v", err)
		h.writeError(w, "Failed to scan workspace", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, namespaces, http.StatusOK)
}

// ListModelFiles returns the persisted model files
func (h *EditorHandler) ListModelFiles(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence not configured", "", http.StatusServiceUnavailable)
		return
	}

	files, err := h.repo.ListModelFiles(r.Context())
	if err != nil {
		log.Printf("Failed to list model files: %v", err)
		h.writeError(w, "Failed to list model files", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, files, http.StatusOK)
}

// ModelFileKeyRequest names one persisted model file.
type ModelFileKeyRequest struct {
	Namespace string `json:"namespace"`
	Version   string `json:"version"`
	Name      string `json:"name"`
}

// SaveModelFile serializes the current model and stores it under the given
// namespace, version and name.
func (h *EditorHandler) SaveModelFile(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence not configured", "", http.StatusServiceUnavailable)
		return
	}

	var req ModelFileKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Namespace == "" || req.Version == "" || req.Name == "" {
		h.writeError(w, "Namespace, version and name are required", "", http.StatusBadRequest)
		return
	}

	data, err := h.editor.ExportModel()
	if err != nil {
		log.Printf("Failed to export model: %v", err)
		h.writeError(w, "Failed to export model", err.Error(), http.StatusInternalServerError)
		return
	}

	file := &repository.ModelFile{
		Namespace: req.Namespace,
		Version:   req.Version,
		Name:      req.Name,
		Content:   string(data),
	}
	if err := h.repo.SaveModelFile(r.Context(), file); err != nil {
		log.Printf("Failed to save model file %s: %v", file.Key(), err)
		h.writeError(w, "Failed to save model file", err.Error(), http.StatusInternalServerError)
		return
	}

	file.Content = ""
	h.writeJSON(w, file, http.StatusCreated)
}

// OpenModelFile loads a persisted model file into the editor and restores
// its saved cell positions.
func (h *EditorHandler) OpenModelFile(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence not configured", "", http.StatusServiceUnavailable)
		return
	}

	file, err := h.repo.GetModelFile(r.Context(), r.PathValue("namespace"), r.PathValue("version"), r.PathValue("name"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Model file not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to load model file: %v", err)
		h.writeError(w, "Failed to load model file", err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.editor.ImportModel([]byte(file.Content)); err != nil {
		h.writeError(w, "Failed to parse model file", err.Error(), http.StatusInternalServerError)
		return
	}

	positions, err := h.repo.GetPositions(r.Context(), file.Key())
	if err != nil {
		log.Printf("Failed to load positions for %s: %v", file.Key(), err)
	} else if len(positions) > 0 {
		restored := make([]service.CellPosition, 0, len(positions))
		for _, p := range positions {
			restored = append(restored, service.CellPosition{URN: p.URN, X: p.X, Y: p.Y})
		}
		h.editor.MoveCells(restored)
	}

	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// DeleteModelFile removes a persisted model file and its positions.
func (h *EditorHandler) DeleteModelFile(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence not configured", "", http.StatusServiceUnavailable)
		return
	}

	err := h.repo.DeleteModelFile(r.Context(), r.PathValue("namespace"), r.PathValue("version"), r.PathValue("name"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Model file not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete model file: %v", err)
		h.writeError(w, "Failed to delete model file", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPositions returns the saved cell placements for a model file.
func (h *EditorHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "Persistence not configured", "", http.StatusServiceUnavailable)
		return
	}

	fileKey := r.URL.Query().Get("file")
	if fileKey == "" {
		h.writeError(w, "File key is required", "", http.StatusBadRequest)
		return
	}

	positions, err := h.repo.GetPositions(r.Context(), fileKey)
	if err != nil {
		log.Printf("Failed to load positions for %s: %v", fileKey, err)
		h.writeError(w, "Failed to load positions", err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]service.CellPosition, 0, len(positions))
	for _, p := range positions {
		out = append(out, service.CellPosition{URN: p.URN, X: p.X, Y: p.Y})
	}
	h.writeJSON(w, out, http.StatusOK)
}

// ResolveNamespace loads a workspace model file as an external reference and
// draws its elements alongside the current model.
func (h *EditorHandler) ResolveNamespace(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		h.writeError(w, "Workspace not configured", "No workspace directory is set", http.StatusServiceUnavailable)
		return
	}

	var ref namespace.FileRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if ref.Namespace == "" || ref.Version == "" || ref.File == "" {
		h.writeError(w, "Namespace, version and file are required", "", http.StatusBadRequest)
		return
	}

	ext, err := h.resolver.Resolve(ref)
	if err != nil {
		h.writeRejection(w, "Failed to resolve namespace file", err)
		return
	}

	if _, err := h.editor.AddExternalElements(ext); err != nil {
		h.writeError(w, "Failed to add external elements", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, h.editor.Graph(), http.StatusOK)
}

// Helper methods

func (h *EditorHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *EditorHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// writeRejection maps connection rejections to 422 with their severity so
// the UI can distinguish blocking errors from warnings and notices. Other
// errors fall back to 400 or 404.
func (h *EditorHandler) writeRejection(w http.ResponseWriter, msg string, err error) {
	if rej, ok := connection.IsRejection(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:    msg,
			Details:  rej.Message,
			Severity: string(rej.Severity),
		})
		return
	}
	if strings.Contains(err.Error(), "not found") {
		h.writeError(w, msg, err.Error(), http.StatusNotFound)
		return
	}
	h.writeError(w, msg, err.Error(), http.StatusBadRequest)
}
