// Package search indexes task content in Elasticsearch for full-text lookup.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/olivere/elastic/v7"
)

const defaultSearchSize = 50

const taskMapping = `{
	"mappings": {
		"properties": {
			"id":            {"type": "long"},
			"user_id":       {"type": "keyword"},
			"collection_id": {"type": "long"},
			"content":       {"type": "text"},
			"expires_at":    {"type": "date"},
			"done":          {"type": "boolean"},
			"created_at":    {"type": "date"}
		}
	}
}`

// TaskIndex is an Elasticsearch index of tasks. Documents are domain.Task
// values keyed by task id.
type TaskIndex struct {
	client *elastic.Client
	index  string
}

// NewClient connects to url without sniffing or background health checks.
func NewClient(url string) (*elastic.Client, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

func NewTaskIndex(client *elastic.Client, index string) *TaskIndex {
	return &TaskIndex{client: client, index: index}
}

// EnsureIndex creates the index with the task mapping when it does not exist yet.
func (ti *TaskIndex) EnsureIndex(ctx context.Context) error {
	exists, err := ti.client.IndexExists(ti.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", ti.index, err)
	}
	if exists {
		return nil
	}
	if _, err := ti.client.CreateIndex(ti.index).BodyString(taskMapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", ti.index, err)
	}
	return nil
}

func (ti *TaskIndex) IndexTask(ctx context.Context, task domain.Task) error {
	_, err := ti.client.Index().
		Index(ti.index).
		Id(strconv.FormatInt(task.ID, 10)).
		BodyJson(task).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("index task %d: %w", task.ID, err)
	}
	return nil
}

// DeleteCollectionTasks removes every indexed task of a deleted collection.
func (ti *TaskIndex) DeleteCollectionTasks(ctx context.Context, userID string, collectionID int64) error {
	q := elastic.NewBoolQuery().Filter(
		elastic.NewTermQuery("user_id", userID),
		elastic.NewTermQuery("collection_id", collectionID),
	)
	if _, err := ti.client.DeleteByQuery(ti.index).Query(q).Do(ctx); err != nil {
		return fmt.Errorf("delete tasks of collection %d: %w", collectionID, err)
	}
	return nil
}

// Search matches query against task content, restricted to userID's tasks.
func (ti *TaskIndex) Search(ctx context.Context, userID, query string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	query = strings.TrimSpace(query)
	if query == "" {
		return tasks, nil
	}

	q := elastic.NewBoolQuery().
		Must(elastic.NewMatchQuery("content", query)).
		Filter(elastic.NewTermQuery("user_id", userID))
	res, err := ti.client.Search(ti.index).Query(q).Size(defaultSearchSize).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	if res.Hits == nil {
		return tasks, nil
	}

	for _, hit := range res.Hits.Hits {
		var t domain.Task
		if err := json.Unmarshal(hit.Source, &t); err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", hit.Id, err)
		}
		// Indexes created without the keyword mapping analyze user_id.
		if t.UserID != userID {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
