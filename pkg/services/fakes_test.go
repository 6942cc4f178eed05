package services

import (
	"context"
	"errors"
	"sync"

	"melonworks-site/pkg/cms"
	"melonworks-site/pkg/models"
)

type fakeSource struct {
	mu       sync.Mutex
	articles []models.Article
	byID     map[string]models.Article
	tags     []models.Tag
	listErr  error
	tagsErr  error
	getErr   error
	queries  []cms.ArticleQuery
}

func (f *fakeSource) ListArticles(_ context.Context, q cms.ArticleQuery) ([]models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.articles, nil
}

func (f *fakeSource) GetArticle(_ context.Context, id string) (models.Article, error) {
	if f.getErr != nil {
		return models.Article{}, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return models.Article{}, cms.ErrNotFound
	}
	return a, nil
}

func (f *fakeSource) ListTags(context.Context, int) ([]models.Tag, error) {
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func (f *fakeSource) recorded() []cms.ArticleQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cms.ArticleQuery(nil), f.queries...)
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []Mail
	failTo string
}

func (f *fakeSender) Send(_ context.Context, m Mail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo != "" && m.To == f.failTo {
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) mails() []Mail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Mail(nil), f.sent...)
}
