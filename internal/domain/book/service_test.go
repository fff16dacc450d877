package book

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================
// 测试替身(内存实现)
// =========================================

// fakeRepo 内存图书仓储
type fakeRepo struct {
	books      map[uint]*Book
	nextID     uint
	viewIncrs  map[uint]int // 每本图书的IncrViewCount调用次数
	createErr  error
	listErr    error
	createdCnt int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:     make(map[uint]*Book),
		nextID:    1,
		viewIncrs: make(map[uint]int),
	}
}

func (r *fakeRepo) List(ctx context.Context) ([]*Book, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*Book, 0, len(r.books))
	for _, b := range r.books {
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) Create(ctx context.Context, b *Book) error {
	if r.createErr != nil {
		return r.createErr
	}
	b.ID = r.nextID
	r.nextID++
	copied := *b
	r.books[b.ID] = &copied
	r.createdCnt++
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, b *Book) error {
	existing, ok := r.books[b.ID]
	if !ok {
		return ErrBookNotFound
	}
	existing.Title = b.Title
	existing.Author = b.Author
	existing.Price = b.Price
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeRepo) IncrViewCount(ctx context.Context, id uint) error {
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	b.ViewCount++
	r.viewIncrs[id]++
	return nil
}

// fakeLedger 内存作者台账
type fakeLedger struct {
	counts     map[string]int
	createCnt  map[string]int // 每个作者的Create调用次数
	decrements []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		counts:    make(map[string]int),
		createCnt: make(map[string]int),
	}
}

func (l *fakeLedger) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := l.counts[name]
	return ok, nil
}

func (l *fakeLedger) Create(ctx context.Context, name string) error {
	l.counts[name] = 1
	l.createCnt[name]++
	return nil
}

func (l *fakeLedger) Decrement(ctx context.Context, name string) error {
	l.decrements = append(l.decrements, name)
	if c, ok := l.counts[name]; ok && c > 0 {
		l.counts[name] = c - 1
	}
	return nil
}

// fakeCache 快照缓存替身
type fakeCache struct {
	writes      int
	invalidates int
	err         error
}

func (c *fakeCache) Write(ctx context.Context, books []*Book) error {
	if c.err != nil {
		return c.err
	}
	c.writes++
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	c.invalidates++
	return nil
}

// fakeRecommend 推荐索引替身
type fakeRecommend struct {
	entries map[uint][]uint
	err     error
}

func newFakeRecommend() *fakeRecommend {
	return &fakeRecommend{entries: make(map[uint][]uint)}
}

func (r *fakeRecommend) Put(ctx context.Context, bookID uint, relatedIDs []uint) error {
	if r.err != nil {
		return r.err
	}
	r.entries[bookID] = relatedIDs
	return nil
}

func (r *fakeRecommend) Remove(ctx context.Context, bookID uint) error {
	if r.err != nil {
		return r.err
	}
	delete(r.entries, bookID)
	return nil
}

// fakeInventory 库存登记替身
type fakeInventory struct {
	records map[uint]int
	err     error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{records: make(map[uint]int)}
}

func (i *fakeInventory) Record(ctx context.Context, bookID uint, quantity int) error {
	if i.err != nil {
		return i.err
	}
	i.records[bookID] = quantity
	return nil
}

// fakeEnricher 元数据补全替身
type fakeEnricher struct {
	genre       string
	description string
	err         error
}

func (e *fakeEnricher) Enrich(ctx context.Context, isbn string) (string, string, error) {
	if e.err != nil {
		return "", "", e.err
	}
	return e.genre, e.description, nil
}

// fakeNotifier 事件通知替身
type fakeNotifier struct {
	created []string
	deleted []string
	err     error
}

func (n *fakeNotifier) BookCreated(ctx context.Context, b *Book) error {
	if n.err != nil {
		return n.err
	}
	n.created = append(n.created, b.Title)
	return nil
}

func (n *fakeNotifier) BookDeleted(ctx context.Context, b *Book) error {
	if n.err != nil {
		return n.err
	}
	n.deleted = append(n.deleted, b.Title)
	return nil
}

// env 测试环境：服务及其全部替身
type env struct {
	svc       Service
	repo      *fakeRepo
	ledger    *fakeLedger
	cache     *fakeCache
	recommend *fakeRecommend
	inventory *fakeInventory
	enricher  *fakeEnricher
	notifier  *fakeNotifier
}

func newEnv() *env {
	e := &env{
		repo:      newFakeRepo(),
		ledger:    newFakeLedger(),
		cache:     &fakeCache{},
		recommend: newFakeRecommend(),
		inventory: newFakeInventory(),
		enricher:  &fakeEnricher{genre: "Fiction", description: "A fascinating book about..."},
		notifier:  &fakeNotifier{},
	}
	e.svc = NewService(e.repo, e.ledger, e.cache, e.recommend, e.inventory, e.enricher, e.notifier)
	return e
}

// =========================================
// CreateBook
// =========================================

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("正常创建", func(t *testing.T) {
		e := newEnv()

		b, err := e.svc.CreateBook(ctx, "Go语言实战", "威廉", 59.0)
		require.NoError(t, err)

		assert.NotZero(t, b.ID, "仓储应该分配ID")
		assert.True(t, strings.HasPrefix(b.ISBN, "ISBN-"), "ISBN应该是系统生成的时间衍生值")
		assert.NotEmpty(t, b.InternalCode, "内部编码应该已生成")
		wantPrefix := upperPrefix("威廉", 2) + upperPrefix("Go语言实战", 2)
		assert.True(t, strings.HasPrefix(b.InternalCode, wantPrefix),
			"内部编码前缀应该来自作者和书名")

		// 初始库存登记
		assert.Equal(t, DefaultInventoryQuantity, e.inventory.records[b.ID])

		// 创建事件
		assert.Equal(t, []string{"Go语言实战"}, e.notifier.created)
	})

	t.Run("校验失败不落库", func(t *testing.T) {
		cases := []struct {
			name    string
			title   string
			author  string
			price   float64
			wantErr error
		}{
			{"空书名", "   ", "作者", 10, ErrTitleRequired},
			{"空作者", "书名", "", 10, ErrAuthorRequired},
			{"价格为0", "书名", "作者", 0, ErrInvalidPrice},
			{"价格为负", "书名", "作者", -5, ErrInvalidPrice},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				e := newEnv()
				_, err := e.svc.CreateBook(ctx, tc.title, tc.author, tc.price)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Zero(t, e.repo.createdCnt, "校验失败时不应该有持久化写入")
				assert.Empty(t, e.ledger.counts, "校验失败时不应该创建台账条目")
			})
		}
	})

	t.Run("新作者创建台账条目且计数为1", func(t *testing.T) {
		e := newEnv()

		_, err := e.svc.CreateBook(ctx, "第一本", "鲁迅", 20)
		require.NoError(t, err)

		assert.Equal(t, 1, e.ledger.counts["鲁迅"])
		assert.Equal(t, 1, e.ledger.createCnt["鲁迅"])

		// 同一作者第二本书不重复创建条目
		_, err = e.svc.CreateBook(ctx, "第二本", "鲁迅", 30)
		require.NoError(t, err)
		assert.Equal(t, 1, e.ledger.createCnt["鲁迅"], "已有作者不应该重复创建台账条目")
	})

	t.Run("推荐索引记录同作者图书且上限3本", func(t *testing.T) {
		e := newEnv()

		var ids []uint
		for _, title := range []string{"a", "b", "c", "d"} {
			b, err := e.svc.CreateBook(ctx, title, "同一作者", 10)
			require.NoError(t, err)
			ids = append(ids, b.ID)
		}

		last, err := e.svc.CreateBook(ctx, "e", "同一作者", 10)
		require.NoError(t, err)

		related := e.recommend.entries[last.ID]
		assert.Len(t, related, MaxRelatedBooks, "关联图书上限为3本")
		for _, id := range related {
			assert.Contains(t, ids, id)
			assert.NotEqual(t, last.ID, id, "不应该包含图书自身")
		}
	})

	t.Run("旁路副作用失败不影响创建结果", func(t *testing.T) {
		e := newEnv()
		e.inventory.err = errors.New("inventory db down")
		e.recommend.err = errors.New("disk full")
		e.notifier.err = errors.New("mq down")

		b, err := e.svc.CreateBook(ctx, "抗故障", "作者", 15)
		require.NoError(t, err, "旁路失败不应该让创建失败")
		assert.NotZero(t, b.ID)
		assert.Len(t, e.repo.books, 1)
	})
}

// =========================================
// GetBookByID
// =========================================

func TestGetBookByID(t *testing.T) {
	ctx := context.Background()

	t.Run("连续查询两次浏览计数加2", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "热门书", "作者", 10)
		require.NoError(t, err)

		_, err = e.svc.GetBookByID(ctx, b.ID)
		require.NoError(t, err)
		_, err = e.svc.GetBookByID(ctx, b.ID)
		require.NoError(t, err)

		assert.Equal(t, 2, e.repo.viewIncrs[b.ID])
		assert.Equal(t, 2, e.repo.books[b.ID].ViewCount)
	})

	t.Run("返回的是递增前的计数", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		got, err := e.svc.GetBookByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.ViewCount)
	})

	t.Run("补全成功填充元数据", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		got, err := e.svc.GetBookByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fiction", got.Genre)
		assert.Equal(t, "A fascinating book about...", got.Description)
	})

	t.Run("补全失败回落到默认值", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		e.enricher.err = errors.New("metadata service timeout")
		got, err := e.svc.GetBookByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, DefaultGenre, got.Genre)
		assert.Equal(t, DefaultDescription, got.Description)
	})

	t.Run("ID为0返回不存在", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.GetBookByID(ctx, 0)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("未知ID返回不存在", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.GetBookByID(ctx, 999)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

// =========================================
// ListBooks
// =========================================

func TestListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("返回全部图书并补全元数据", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.CreateBook(ctx, "b书", "甲", 10)
		require.NoError(t, err)
		_, err = e.svc.CreateBook(ctx, "a书", "乙", 20)
		require.NoError(t, err)

		books, err := e.svc.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)

		assert.Equal(t, "a书", books[0].Title, "列表按书名升序")
		for _, b := range books {
			assert.Equal(t, "Fiction", b.Genre)
		}
	})

	t.Run("写入快照缓存", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.ListBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, e.cache.writes)
	})

	t.Run("快照写入失败不影响列表结果", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		e.cache.err = errors.New("disk full")
		books, err := e.svc.ListBooks(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("列表查询不修改浏览计数", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		_, err = e.svc.ListBooks(ctx)
		require.NoError(t, err)
		assert.Zero(t, e.repo.viewIncrs[b.ID])
	})
}

// =========================================
// UpdateBook
// =========================================

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("只更新价格时书名作者保持不变", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "原书名", "原作者", 10)
		require.NoError(t, err)

		updated, err := e.svc.UpdateBook(ctx, b.ID, "", "", 25)
		require.NoError(t, err)

		assert.Equal(t, "原书名", updated.Title)
		assert.Equal(t, "原作者", updated.Author)
		assert.Equal(t, 25.0, updated.Price)
	})

	t.Run("非正价格视为未提供", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		updated, err := e.svc.UpdateBook(ctx, b.ID, "新书名", "", -1)
		require.NoError(t, err)
		assert.Equal(t, "新书名", updated.Title)
		assert.Equal(t, 10.0, updated.Price, "非正价格不应该覆盖现有价格")
	})

	t.Run("更新后快照缓存失效", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		_, err = e.svc.UpdateBook(ctx, b.ID, "", "", 20)
		require.NoError(t, err)
		assert.Equal(t, 1, e.cache.invalidates)
	})

	t.Run("未知ID返回不存在", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.UpdateBook(ctx, 404, "书", "作者", 10)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

// =========================================
// DeleteBook
// =========================================

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("删除后台账减1且后续查询不可见", func(t *testing.T) {
		e := newEnv()
		b1, err := e.svc.CreateBook(ctx, "书一", "老舍", 10)
		require.NoError(t, err)
		_, err = e.svc.CreateBook(ctx, "书二", "老舍", 20)
		require.NoError(t, err)
		assert.Equal(t, 1, e.ledger.counts["老舍"], "台账只在首本书时创建，计数为1")

		err = e.svc.DeleteBook(ctx, b1.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{"老舍"}, e.ledger.decrements)

		_, err = e.svc.GetBookByID(ctx, b1.ID)
		assert.ErrorIs(t, err, ErrBookNotFound)

		books, err := e.svc.ListBooks(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("删除移除推荐索引条目", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)
		require.Contains(t, e.recommend.entries, b.ID)

		err = e.svc.DeleteBook(ctx, b.ID)
		require.NoError(t, err)
		assert.NotContains(t, e.recommend.entries, b.ID)
	})

	t.Run("删除不递增浏览计数", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		err = e.svc.DeleteBook(ctx, b.ID)
		require.NoError(t, err)
		assert.Zero(t, e.repo.viewIncrs[b.ID])
	})

	t.Run("删除发布删除事件", func(t *testing.T) {
		e := newEnv()
		b, err := e.svc.CreateBook(ctx, "再见", "作者", 10)
		require.NoError(t, err)

		err = e.svc.DeleteBook(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"再见"}, e.notifier.deleted)
	})

	t.Run("未知ID返回不存在且台账和仓储不变", func(t *testing.T) {
		e := newEnv()
		_, err := e.svc.CreateBook(ctx, "书", "作者", 10)
		require.NoError(t, err)

		err = e.svc.DeleteBook(ctx, 999)
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.Empty(t, e.ledger.decrements)
		assert.Len(t, e.repo.books, 1)
	})
}

// =========================================
// 内部编码与ISBN生成
// =========================================

func TestGenerateInternalCode(t *testing.T) {
	cases := []struct {
		name       string
		title      string
		author     string
		wantPrefix string
	}{
		{"英文前缀大写", "go in action", "william kennedy", "WIGO"},
		{"单字符不越界", "a", "b", "BA"},
		{"空字符串不越界", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBook(tc.title, tc.author, 10)
			code := b.GenerateInternalCode(timeFixture())
			assert.True(t, strings.HasPrefix(code, tc.wantPrefix),
				"code=%s 应该以%s开头", code, tc.wantPrefix)
		})
	}
}

func timeFixture() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 1, 234_000_000, time.UTC)
}

func TestGenerateISBN(t *testing.T) {
	isbn := GenerateISBN(timeFixture())
	assert.True(t, strings.HasPrefix(isbn, "ISBN-"))
	assert.Greater(t, len(isbn), len("ISBN-"))
}
