package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"ewintr.nl/codingvideos/catalog"
	"ewintr.nl/codingvideos/model"
	"golang.org/x/exp/slog"
)

const (
	msgSaved        = "New video saved!"
	msgInvalidURL   = "Invalid YouTube URL"
	msgCheckData    = "Please check the data entered"
	msgAlreadyAdded = "Video already added"
	msgNoVideos     = "No videos"

	maxBodySize = 1 << 20
)

type VideoAPI struct {
	videos *catalog.Catalog
	logger *slog.Logger
}

func NewVideoAPI(videos *catalog.Catalog, logger *slog.Logger) *VideoAPI {
	return &VideoAPI{
		videos: videos,
		logger: logger,
	}
}

func (v *VideoAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && videoID == "":
		v.List(w, r)
	case r.Method == http.MethodPost && videoID == "":
		v.Add(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the video api", r.Method, videoID))
	}
}

type respVideo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes,omitempty"`
	YoutubeID string    `json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newRespVideo(v *model.Video) respVideo {
	return respVideo{
		ID:        v.ID.String(),
		Name:      v.Name,
		URL:       v.URL,
		Notes:     v.Notes,
		YoutubeID: string(v.YoutubeID),
		CreatedAt: v.CreatedAt,
	}
}

func (v *VideoAPI) List(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search_term")
	videos, err := v.videos.Search(r.Context(), term)
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	resp := struct {
		Message string      `json:"message"`
		Videos  []respVideo `json:"videos"`
	}{
		Message: countMessage(len(videos)),
		Videos:  make([]respVideo, 0, len(videos)),
	}
	for _, video := range videos {
		resp.Videos = append(resp.Videos, newRespVideo(video))
	}

	jsonBody, err := json.Marshal(resp)
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, string(jsonBody))
}

type addRequest struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

func (v *VideoAPI) Add(w http.ResponseWriter, r *http.Request) {
	req, err := parseAddRequest(w, r)
	if err != nil {
		Error(w, http.StatusBadRequest, msgCheckData, err)
		return
	}

	video, err := v.videos.Submit(r.Context(), req.Name, req.URL, req.Notes)
	switch failure := catalog.Classify(err); {
	case failure == catalog.FailureNone:
	case failure.IsInvalidURL():
		Error(w, http.StatusBadRequest, msgInvalidURL, err, msgCheckData)
		return
	case failure == catalog.FailureInvalidInput:
		Error(w, http.StatusBadRequest, msgCheckData, err)
		return
	case failure == catalog.FailureDuplicate:
		Error(w, http.StatusConflict, msgAlreadyAdded, err)
		return
	default:
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not save video", err)
		return
	}

	resp := struct {
		Message string    `json:"message"`
		Video   respVideo `json:"video"`
	}{
		Message: msgSaved,
		Video:   newRespVideo(video),
	}
	jsonBody, err := json.Marshal(resp)
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, string(jsonBody))
}

func (v *VideoAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	v.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}

// parseAddRequest accepts either a JSON body or regular form values.
func parseAddRequest(w http.ResponseWriter, r *http.Request) (addRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req addRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return addRequest{}, fmt.Errorf("could not decode body: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return addRequest{}, fmt.Errorf("could not parse form: %w", err)
	}
	return addRequest{
		Name:  r.PostFormValue("name"),
		URL:   r.PostFormValue("url"),
		Notes: r.PostFormValue("notes"),
	}, nil
}

func countMessage(n int) string {
	switch n {
	case 0:
		return msgNoVideos
	case 1:
		return "1 video"
	default:
		return fmt.Sprintf("%d videos", n)
	}
}
