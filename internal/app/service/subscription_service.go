package service

import (
	"errors"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNoSubscriptionEmail  = errors.New("no subscription found with this email")
	ErrInvalidStatus        = errors.New("invalid subscription status")
)

type SubscriptionListOptions struct {
	Status string
	Page   int
	Limit  int
}

// SubscriptionService manages store subscription requests. Status only
// changes through Approve and Reject.
type SubscriptionService interface {
	List(p *model.User, opts SubscriptionListOptions) ([]model.Subscription, int64, error)
	CheckByEmail(email string) (*model.Subscription, error)
	Get(p *model.User, id string) (*model.Subscription, error)
	Create(profile model.StoreProfile) (*model.Subscription, error)
	UpdateByEmail(email string, input ProfileMutation) (*model.Subscription, error)
	Update(p *model.User, id string, input ProfileMutation) (*model.Subscription, error)
	Approve(p *model.User, id string) (*model.Subscription, error)
	Reject(p *model.User, id string) (*model.Subscription, error)
	Delete(p *model.User, id string) error
}

type subscriptionService struct {
	subRepo repository.SubscriptionRepository
	engine  *authz.Engine
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, engine *authz.Engine) SubscriptionService {
	return &subscriptionService{
		subRepo: subRepo,
		engine:  engine,
	}
}

func (s *subscriptionService) List(p *model.User, opts SubscriptionListOptions) ([]model.Subscription, int64, error) {
	scope, err := s.engine.SubscriptionScope(p)
	if err != nil {
		return nil, 0, err
	}
	if opts.Status != "" && !model.SubscriptionStatus(opts.Status).Valid() {
		return nil, 0, ErrInvalidStatus
	}

	return s.subRepo.FindAll(repository.SubscriptionFilter{
		UserID: scope.Owner(),
		Status: opts.Status,
		Page:   repository.Pagination{Page: opts.Page, Limit: opts.Limit},
	})
}

func (s *subscriptionService) load(id string) (*model.Subscription, error) {
	sub, err := s.subRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) loadByEmail(email string) (*model.Subscription, error) {
	sub, err := s.subRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscriptionEmail
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) CheckByEmail(email string) (*model.Subscription, error) {
	return s.loadByEmail(email)
}

func (s *subscriptionService) Get(p *model.User, id string) (*model.Subscription, error) {
	sub, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.AuthorizeSubscription(p, sub, authz.ActionRead); err != nil {
		return nil, err
	}
	return sub, nil
}

// Create files an anonymous pending request.
func (s *subscriptionService) Create(profile model.StoreProfile) (*model.Subscription, error) {
	logger.Info("Creating subscription", map[string]interface{}{
		"name":  profile.Name,
		"email": profile.Email,
	})

	if err := profile.Products.Validate(); err != nil {
		return nil, err
	}
	if profile.Products == nil {
		profile.Products = model.ProductList{}
	}

	sub := &model.Subscription{
		StoreProfile: profile,
		UserID:       nil,
		Status:       model.SubscriptionPending,
	}
	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}

	logger.Info("Subscription created", map[string]interface{}{
		"subscription_id": sub.ID,
	})
	return sub, nil
}

func (s *subscriptionService) apply(sub *model.Subscription, input ProfileMutation) (*model.Subscription, error) {
	updates, err := input.columns()
	if err != nil {
		return nil, err
	}
	if err := s.subRepo.UpdateUnlessApproved(sub, updates); err != nil {
		if errors.Is(err, repository.ErrStaleSubscription) {
			return nil, authz.ErrSubscriptionApproved
		}
		return nil, err
	}

	logger.Info("Subscription updated", map[string]interface{}{
		"subscription_id": sub.ID,
		"fields":          len(updates),
	})
	return sub, nil
}

func (s *subscriptionService) UpdateByEmail(email string, input ProfileMutation) (*model.Subscription, error) {
	sub, err := s.loadByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := s.engine.AuthorizePublicSubscriptionUpdate(sub); err != nil {
		return nil, err
	}
	return s.apply(sub, input)
}

func (s *subscriptionService) Update(p *model.User, id string, input ProfileMutation) (*model.Subscription, error) {
	sub, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.AuthorizeSubscription(p, sub, authz.ActionUpdate); err != nil {
		return nil, err
	}
	return s.apply(sub, input)
}

func (s *subscriptionService) Approve(p *model.User, id string) (*model.Subscription, error) {
	return s.transition(p, id, "approve subscriptions", model.SubscriptionApproved)
}

func (s *subscriptionService) Reject(p *model.User, id string) (*model.Subscription, error) {
	return s.transition(p, id, "reject subscriptions", model.SubscriptionRejected)
}

// transition checks the admin role before existence.
func (s *subscriptionService) transition(p *model.User, id, what string, to model.SubscriptionStatus) (*model.Subscription, error) {
	if err := s.engine.RequireAdmin(p, what); err != nil {
		logger.Warn("Subscription transition denied", map[string]interface{}{
			"subscription_id": id,
			"user_id":         principalID(p),
		})
		return nil, err
	}

	sub, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.AuthorizeSubscriptionTransition(p, sub); err != nil {
		return nil, err
	}

	if err := s.subRepo.TransitionStatus(sub, model.SubscriptionPending, to); err != nil {
		if errors.Is(err, repository.ErrStaleSubscription) {
			return nil, authz.ErrSubscriptionNotPending
		}
		return nil, err
	}

	logger.Info("Subscription status changed", map[string]interface{}{
		"subscription_id": id,
		"status":          to,
		"admin_id":        p.ID,
	})
	return sub, nil
}

func (s *subscriptionService) Delete(p *model.User, id string) error {
	sub, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.engine.AuthorizeSubscription(p, sub, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.subRepo.DeleteUnlessApproved(id); err != nil {
		if errors.Is(err, repository.ErrStaleSubscription) {
			return authz.ErrApprovedSubscriptionDelete
		}
		return err
	}

	logger.Info("Subscription deleted", map[string]interface{}{
		"subscription_id": id,
	})
	return nil
}
