package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/newsradar-ai/newsradar/pkg/register"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.FeedbackStore = NewFeedbackStore(provider)
	})
}

type FeedbackStore struct {
	CommonFields
}

// NewFeedbackStore 创建新的 FeedbackStore 实例
func NewFeedbackStore(provider SqlProviderAchieve) *FeedbackStore {
	repo := &FeedbackStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_FEEDBACK)
	repo.SetAllColumns("id", "query", "answer", "sources", "reward", "created_at")
	return repo
}

// Create 追加一条反馈记录，记录一旦写入不再修改
func (s *FeedbackStore) Create(ctx context.Context, data types.FeedbackEvent) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "query", "answer", "sources", "reward", "created_at").
		Values(data.ID, data.Query, data.Answer, data.Sources, data.Reward, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// ListAll 按写入顺序分页读取反馈日志，pageSize 为 NO_PAGINATION 时不分页
func (s *FeedbackStore) ListAll(ctx context.Context, page, pageSize uint64) ([]types.FeedbackEvent, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("id ASC")
	if pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.FeedbackEvent
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *FeedbackStore) Total(ctx context.Context) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}
