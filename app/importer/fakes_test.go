package importer

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
	"github.com/inkpress/blogger-import/app/sanitize"
)

type fakeUserRepo struct {
	users     map[string]*database.User
	getErr    error
	createErr error
	created   []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*database.User)}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*database.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *database.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	f.users[user.Username] = user
	f.created = append(f.created, user.Username)
	return nil
}

type fakeTopicRepo struct {
	mu        sync.Mutex
	topics    map[string]*database.Topic // keyed by lower-cased name
	createErr map[string]error           // per topic name
	created   []string
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[string]*database.Topic)}
}

func (f *fakeTopicRepo) GetByName(ctx context.Context, name string) (*database.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topic, ok := f.topics[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	copied := *topic
	return &copied, nil
}

func (f *fakeTopicRepo) Create(ctx context.Context, topic *database.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[topic.Name]; err != nil {
		return err
	}
	if topic.ID == "" {
		topic.ID = "topic-" + strings.ToLower(topic.Name)
	}
	f.topics[strings.ToLower(topic.Name)] = topic
	f.created = append(f.created, topic.Name)
	return nil
}

type fakeContentRepo struct {
	docs      []*database.Content
	createErr map[string]error // per URL
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{}
}

func (f *fakeContentRepo) ExistsByURL(ctx context.Context, kind, url string) (bool, error) {
	for _, doc := range f.docs {
		if doc.Kind == kind && doc.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContentRepo) Create(ctx context.Context, content *database.Content) error {
	if err := f.createErr[content.URL]; err != nil {
		return err
	}
	if content.ID == "" {
		content.ID = fmt.Sprintf("content-%d", len(f.docs)+1)
	}
	f.docs = append(f.docs, content)
	return nil
}

type fakeMediaRepo struct {
	byLocation map[string]*database.Media
	createErr  error
	created    int
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{byLocation: make(map[string]*database.Media)}
}

func (f *fakeMediaRepo) GetByLocation(ctx context.Context, location string) (*database.Media, error) {
	media, ok := f.byLocation[location]
	if !ok {
		return nil, nil
	}
	copied := *media
	return &copied, nil
}

func (f *fakeMediaRepo) Create(ctx context.Context, media *database.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created++
	if media.ID == "" {
		media.ID = fmt.Sprintf("media-%d", f.created)
	}
	f.byLocation[media.Location] = media
	return nil
}

type fakeFetcher struct {
	data map[string][]byte
	err  error
}

func (f *fakeFetcher) Run(ctx context.Context, src string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[src]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", src)
	}
	return data, nil
}

type fakeStorage struct {
	stored []string
}

func (f *fakeStorage) Store(ctx context.Context, sourceURL string, data []byte) (string, error) {
	location := "/media/stored/" + path.Base(sourceURL)
	f.stored = append(f.stored, location)
	return location, nil
}

type testFixture struct {
	importer *Importer
	users    *fakeUserRepo
	topics   *fakeTopicRepo
	content  *fakeContentRepo
	media    *fakeMediaRepo
	fetcher  *fakeFetcher
	storage  *fakeStorage
}

func newTestFixture() *testFixture {
	f := &testFixture{
		users:   newFakeUserRepo(),
		topics:  newFakeTopicRepo(),
		content: newFakeContentRepo(),
		media:   newFakeMediaRepo(),
		fetcher: &fakeFetcher{data: make(map[string][]byte)},
		storage: &fakeStorage{},
	}
	f.importer = New(feed.NewParser(), f.users, f.topics, f.content, f.media,
		f.fetcher, f.storage, sanitize.New())
	return f
}
