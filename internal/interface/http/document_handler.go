package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/legal-rag/internal/core/ingestion"
	"github.com/jinford/legal-rag/internal/infra/extract"
)

// maxUploadBytes はアップロードの上限サイズ（50MB）
const maxUploadBytes = 50 << 20

// uploadResponse はアップロード受理時のレスポンス
type uploadResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// handleUpload はmultipartでドキュメントを受け取り、保存して取り込みを
// バックグラウンドで開始する。202を返した時点では処理は未完了。
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !extract.IsSupported(header.Filename) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type: supported types are %s", strings.Join(extract.SupportedExtensions, ", ")))
		return
	}

	doc := ingestion.Document{
		ID:           uuid.New(),
		Filename:     header.Filename,
		Title:        documentTitle(r.FormValue("title"), header.Filename),
		DocumentType: r.FormValue("documentType"),
		Jurisdiction: r.FormValue("jurisdiction"),
		Date:         r.FormValue("date"),
		UploadedAt:   time.Now().UTC(),
		Status:       ingestion.StatusProcessing,
		Size:         header.Size,
	}

	storedPath, err := s.storeUpload(file, doc.ID, header.Filename)
	if err != nil {
		s.logger.Error("failed to store uploaded file", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store uploaded file")
		return
	}
	doc.StoredPath = storedPath

	if err := s.ingestion.SaveDocument(r.Context(), doc); err != nil {
		s.logger.Error("failed to save document", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	// リクエストのctxはレスポンス送出で終わるため、取り込みは独立したctxで行う
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		_ = s.ingestion.Process(ctx, doc)
	}()

	writeJSON(w, http.StatusAccepted, uploadResponse{
		ID:       doc.ID.String(),
		Filename: doc.Filename,
		Status:   string(doc.Status),
	})
}

// storeUpload はアップロード内容を {uploadDir}/{id}{ext} に保存する
func (s *Server) storeUpload(src io.Reader, id uuid.UUID, filename string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.uploadDir, id.String()+strings.ToLower(filepath.Ext(filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

func documentTitle(title, filename string) string {
	if title != "" {
		return title
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ingestion.ListDocuments(r.Context())
	if err != nil {
		s.logger.Error("failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []ingestion.Document{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	docOpt, err := s.ingestion.GetDocument(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get document", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}
	doc, ok := docOpt.Get()
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := s.ingestion.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ingestion.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("failed to delete document", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
