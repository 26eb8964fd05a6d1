package devs3

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/jobs"
)

// A tiny filesystem-backed S3 lookalike for local development, standing in
// for DigitalOcean Spaces. It understands just enough of the S3 REST API for
// the backup job: create bucket, put object, get object.

const storageFolder = "./tmp/devs3"

func StartServer() *jobs.Job {
	job := jobs.New("dev s3 server")

	if config.Config.Env != config.Dev || !config.Config.Spaces.Enabled {
		return job.Finish()
	}

	endpoint, err := url.Parse(config.Config.Spaces.Endpoint)
	if err != nil {
		panic(err)
	}

	err = os.MkdirAll(storageFolder, fs.ModePerm)
	if err != nil {
		panic(err)
	}

	server := http.Server{
		Addr:    endpoint.Host,
		Handler: http.HandlerFunc(handleRequest),
	}

	go func() {
		job.Logger.Info().Str("addr", endpoint.Host).Msg("Serving local S3")
		serverErr := server.ListenAndServe()
		if !errors.Is(serverErr, http.ErrServerClosed) {
			job.Logger.Error().Err(serverErr).Msg("Local S3 server shut down unexpectedly")
		}
	}()
	go func() {
		<-job.Canceled()
		server.Shutdown(context.Background())
		job.Finish()
	}()

	return job
}

func handleRequest(w http.ResponseWriter, r *http.Request) {
	bucket, key := bucketKey(r)
	if bucket == "" || strings.Contains(key, "..") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		err = os.MkdirAll(filepath.Join(storageFolder, bucket), fs.ModePerm)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if key != "" {
			err = os.WriteFile(filepath.Join(storageFolder, bucket, key), body, fs.ModePerm)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Location", "/"+bucket)
	case http.MethodGet, http.MethodHead:
		fileBytes, err := os.ReadFile(filepath.Join(storageFolder, bucket, key))
		if os.IsNotExist(err) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.Method == http.MethodGet {
			w.Write(fileBytes)
		}
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

// Object keys may contain slashes, but we store each object as a single flat
// file under its bucket.
func bucketKey(r *http.Request) (string, string) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	return bucket, strings.ReplaceAll(key, "/", "~")
}
