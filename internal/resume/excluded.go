package resume

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

type ExcludeActor string

const (
	ExcludeActorUser ExcludeActor = "user"
	ExcludeActorAI   ExcludeActor = "ai"
)

type ExcludedResumes struct {
	Items []*ExcludedResume
}

type ExcludedResume struct {
	Filename   string
	Score      float64
	ExcludedAt time.Time
	Actor      ExcludeActor `json:",omitempty"`
	Reason     string       `json:",omitempty"`
}

// GetExcludedResumesFromFile reads the exclude file. A missing or empty file yields an empty list.
func GetExcludedResumesFromFile(path string) (*ExcludedResumes, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ExcludedResumes{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedResumes{}, nil
	}

	var excluded ExcludedResumes
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedResumes) Append(s *ExcludedResumes) {
	if s == nil {
		return
	}
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedResumes) Filenames() []string {
	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		names = append(names, item.Filename)
	}
	return names
}

func (e *ExcludedResumes) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
