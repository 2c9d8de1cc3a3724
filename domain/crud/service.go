// Package crud 提供基于 DTO 的通用增删改查服务。
//
// 写操作成功后发布实体变更事件 <entity>.created / <entity>.updated / <entity>.deleted，
// 事件发布失败只记录日志，不回滚已完成的写入。
package crud

import (
	"context"

	"sndeals/domain/entity"
	"sndeals/errors"
	"sndeals/logging"
	"sndeals/messaging"
	"sndeals/metrics"
	"sndeals/query"
)

// IRepository 服务依赖的仓储能力，repo.Repo 满足该接口
type IRepository[E entity.IEntity] interface {
	Get(ctx context.Context, id int64) (E, error)
	Create(ctx context.Context, e E) error
	Update(ctx context.Context, e E) error
	Delete(ctx context.Context, id int64) error
}

// IMapper DTO 与实体互转
type IMapper[E entity.IEntity, D any] interface {
	ToEntity(dto D) E
	ToDTOs(ctx context.Context, items []E) ([]D, error)
}

// IReferenceChecker 映射器可选实现：写入前确认外键引用的记录存在
type IReferenceChecker[D any] interface {
	CheckReferences(ctx context.Context, dto D) error
}

// IPager 按条件分页读取 DTO，listing 的查询门面满足该接口
type IPager[D any] interface {
	FindPageByCriteria(ctx context.Context, c query.Criteria, w *query.PageWindow) (*query.Page[D], error)
}

// 事件类型后缀
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Service 单一实体的 CRUD 服务
type Service[E entity.IEntity, D entity.IObject[int64]] struct {
	name      string
	repo      IRepository[E]
	mapper    IMapper[E, D]
	pager     IPager[D]
	publisher messaging.IPublisher
	logger    logging.Logger
}

// NewService 创建服务；publisher 为 nil 时不发布事件
func NewService[E entity.IEntity, D entity.IObject[int64]](
	name string,
	repo IRepository[E],
	mapper IMapper[E, D],
	pager IPager[D],
	publisher messaging.IPublisher,
) *Service[E, D] {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service[E, D]{
		name:      name,
		repo:      repo,
		mapper:    mapper,
		pager:     pager,
		publisher: publisher,
		logger:    logging.ComponentLogger("crud." + name),
	}
}

// Name 实体名，例如 "post"
func (s *Service[E, D]) Name() string { return s.name }

// Create 新建实体；DTO 已带 id 时返回 INVALID_INPUT
func (s *Service[E, D]) Create(ctx context.Context, dto D) (D, error) {
	var zero D
	if dto.GetID() != 0 {
		return zero, errors.Newf(errors.ErrCodeInvalidInput, "a new %s cannot already have an id", s.name)
	}
	if err := s.checkReferences(ctx, dto); err != nil {
		return zero, err
	}
	e := s.mapper.ToEntity(dto)
	if err := s.repo.Create(ctx, e); err != nil {
		return zero, err
	}
	return s.reload(ctx, e.GetID(), EventCreated)
}

// Update 整体更新；DTO 缺少 id 返回 INVALID_INPUT，记录不存在返回 NOT_FOUND
func (s *Service[E, D]) Update(ctx context.Context, dto D) (D, error) {
	var zero D
	if dto.GetID() == 0 {
		return zero, errors.Newf(errors.ErrCodeInvalidInput, "invalid id for %s update", s.name)
	}
	if err := s.checkReferences(ctx, dto); err != nil {
		return zero, err
	}
	e := s.mapper.ToEntity(dto)
	if err := s.repo.Update(ctx, e); err != nil {
		return zero, err
	}
	return s.reload(ctx, e.GetID(), EventUpdated)
}

// FindOne 按 id 读取
func (s *Service[E, D]) FindOne(ctx context.Context, id int64) (D, error) {
	var zero D
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	dtos, err := s.mapper.ToDTOs(ctx, []E{e})
	if err != nil {
		return zero, err
	}
	return dtos[0], nil
}

// Delete 按 id 删除，记录不存在返回 NOT_FOUND
func (s *Service[E, D]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventDeleted, map[string]any{"id": id})
	return nil
}

// FindAll 无过滤条件的分页读取
func (s *Service[E, D]) FindAll(ctx context.Context, w *query.PageWindow) (*query.Page[D], error) {
	return s.pager.FindPageByCriteria(ctx, nil, w)
}

// reload 读回写入后的记录以填充显示字段，再发布事件
func (s *Service[E, D]) reload(ctx context.Context, id int64, event string) (D, error) {
	dto, err := s.FindOne(ctx, id)
	if err != nil {
		return dto, err
	}
	s.publish(ctx, event, dto)
	return dto, nil
}

func (s *Service[E, D]) checkReferences(ctx context.Context, dto D) error {
	if c, ok := s.mapper.(IReferenceChecker[D]); ok {
		return c.CheckReferences(ctx, dto)
	}
	return nil
}

func (s *Service[E, D]) publish(ctx context.Context, event string, payload any) {
	msg := messaging.NewMessage(s.name+"."+event, payload)
	msg.SetMetadata("entity", s.name)
	err := s.publisher.Publish(ctx, msg)
	metrics.ObservePublish(msg.Type, err)
	if err != nil {
		s.logger.Warn(ctx, "publish entity event failed",
			logging.String("event", msg.Type),
			logging.String("message_id", msg.ID),
			logging.Error(err))
	}
}
