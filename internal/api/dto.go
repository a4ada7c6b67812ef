package api

import "github.com/samcharles93/ripo/internal/report"

type ContainerResponse struct {
	ID        string              `json:"id"`
	Object    string              `json:"object"`
	Name      string              `json:"name,omitempty"`
	CreatedAt int64               `json:"created_at"`
	Size      int64               `json:"size"`
	Magic     string              `json:"magic"`
	Arches    []report.ArchReport `json:"arches"`
}

type ContainerSummary struct {
	ID        string   `json:"id"`
	Object    string   `json:"object"`
	Name      string   `json:"name,omitempty"`
	CreatedAt int64    `json:"created_at"`
	Size      int64    `json:"size"`
	Arches    []string `json:"arches"`
}

type ContainerList struct {
	Object string             `json:"object"`
	Data   []ContainerSummary `json:"data"`
}

type DeleteContainerResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type BuildEntry struct {
	Arch    string  `json:"arch"`
	Subtype uint32  `json:"subtype,omitempty"`
	Align   *uint32 `json:"align,omitempty"`
	Payload []byte  `json:"payload"`
}

type BuildRequest struct {
	Entries []BuildEntry `json:"entries"`
}
