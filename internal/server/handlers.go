package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/pipeline"
	"github.com/matzehuels/albumstack/pkg/render/refgraph"
	"github.com/matzehuels/albumstack/pkg/session"
)

// =============================================================================
// Documents
// =============================================================================

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.sessions.Store().List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := document.Decode(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc.Revision = 0
	sess, err := s.sessions.Create(r.Context(), doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/documents/"+doc.ID)
	writeDocument(w, http.StatusCreated, sess.Document())
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := sess.Document()
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag(doc.Revision) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeDocument(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setTitle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, "title", func(d *document.Document) (*document.Document, error) {
		return document.SetTitle(d, body.Title)
	})
}

// =============================================================================
// Previews
// =============================================================================

// pipelineOptions reads width, theme and labels from the query string.
func pipelineOptions(r *http.Request, formats ...string) (pipeline.Options, error) {
	width, err := floatQuery(r, "width")
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Width:      width,
		Formats:    formats,
		Theme:      r.URL.Query().Get("theme"),
		ShowLabels: boolQuery(r, "labels"),
		NoImages:   boolQuery(r, "noImages"),
	}
	if err := opts.ValidateForPlace(); err != nil {
		return opts, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "layout options")
	}
	if len(formats) > 0 {
		if err := opts.ValidateForRender(); err != nil {
			return opts, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "render options")
		}
	}
	return opts, nil
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := pipelineOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := sess.Document()
	page, err := s.runner.Place(r.Context(), doc, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(doc.Revision))
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := pipelineOptions(r, pipeline.FormatSVG)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := sess.Document()
	result, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("ETag", etag(doc.Revision))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatSVG])
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dot := refgraph.ToDOT(sess.Document(), refgraph.Options{
		SlotLabels: boolQuery(r, "slots"),
		HideUnused: boolQuery(r, "hideUnused"),
	})
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

// =============================================================================
// Blocks
// =============================================================================

func (s *Server) exportBlocks(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := sess.Document()
	data, err := document.ExportBlocks(doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag(doc.Revision))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) importBlocks(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, "blocks.import", func(d *document.Document) (*document.Document, error) {
		return document.ImportBlocks(d, data)
	})
}

func (s *Server) addBlock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type album.Type `json:"type"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	var added string
	doc, ok := s.apply(w, r, "block.add", func(d *document.Document) (*document.Document, error) {
		next, id, err := document.AddBlock(d, body.Type, nil)
		added = id
		return next, err
	})
	if !ok {
		return
	}
	w.Header().Set("Location", "/v1/documents/"+doc.ID+"/blocks/"+added)
	writeDocument(w, http.StatusCreated, doc)
}

func (s *Server) removeBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, "block.rm", func(d *document.Document) (*document.Document, error) {
		return document.RemoveBlock(d, blockID)
	})
}

func (s *Server) moveBlock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction int `json:"direction"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, "block.mv", func(d *document.Document) (*document.Document, error) {
		return document.MoveBlock(d, blockID, body.Direction)
	})
}

func (s *Server) patchBlock(w http.ResponseWriter, r *http.Request) {
	var p document.Patch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, "block.patch", func(d *document.Document) (*document.Document, error) {
		return document.PatchBlock(d, blockID, p)
	})
}

func (s *Server) attachAsset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AssetID string `json:"assetId"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, "block.attach", func(d *document.Document) (*document.Document, error) {
		return document.AttachAsset(d, blockID, body.AssetID)
	})
}

func (s *Server) detachAsset(w http.ResponseWriter, r *http.Request) {
	index, err := intParam("index", chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, "block.detach", func(d *document.Document) (*document.Document, error) {
		return document.DetachAsset(d, blockID, index)
	})
}

func (s *Server) setSpan(w http.ResponseWriter, r *http.Request) {
	index, err := intParam("index", chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var span album.Span
	if err := decodeBody(w, r, &span); err != nil {
		writeError(w, r, err)
		return
	}
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, "block.span", func(d *document.Document) (*document.Document, error) {
		return document.SetSpan(d, blockID, index, span)
	})
}

// =============================================================================
// Assets
// =============================================================================

func (s *Server) addAsset(w http.ResponseWriter, r *http.Request) {
	var a album.Asset
	if err := decodeBody(w, r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	doc, ok := s.apply(w, r, "asset.add", func(d *document.Document) (*document.Document, error) {
		return document.AddAsset(d, a)
	})
	if !ok {
		return
	}
	writeDocument(w, http.StatusCreated, doc)
}

func (s *Server) removeAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	s.mutate(w, r, "asset.rm", func(d *document.Document) (*document.Document, error) {
		return document.RemoveAsset(d, assetID)
	})
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	return s.sessions.Get(r.Context(), id)
}

// mutate applies op and responds with the new document.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, name string, op session.Op) {
	if doc, ok := s.apply(w, r, name, op); ok {
		writeDocument(w, http.StatusOK, doc)
	}
}

// apply runs op in the document's session under the If-Match revision. On
// failure it writes the error response and returns false. A conflict raised
// by the store means another process wrote the document; the session is
// reloaded so the client can retry against the stored revision.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, name string, op session.Op) (*document.Document, bool) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	expected, err := expectedRevision(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	doc, err := sess.Apply(r.Context(), expected, name, op)
	if err != nil {
		if apperr.Is(err, apperr.ErrCodeConflict) {
			if rerr := sess.Reload(r.Context()); rerr != nil {
				s.logger.Warn("reload after conflict", "doc", chi.URLParam(r, "id"), "err", rerr)
			}
			w.Header().Set("ETag", etag(sess.Revision()))
		}
		writeError(w, r, err)
		return nil, false
	}
	return doc, true
}
