/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package eventmanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/kamileo242/EventManager/config"
	"github.com/kamileo242/EventManager/converter"
	"github.com/kamileo242/EventManager/datastore"
	boltstore "github.com/kamileo242/EventManager/datastore/bolt"
	"github.com/kamileo242/EventManager/datastore/ddb"
	"github.com/kamileo242/EventManager/datastore/memory"
	"github.com/kamileo242/EventManager/datastore/metrics"
	"github.com/kamileo242/EventManager/datastore/sqlstore"
	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/registry"
	"github.com/kamileo242/EventManager/repository"
	"github.com/kamileo242/EventManager/service"
	"github.com/kamileo242/EventManager/storagemodels"
)

// RegisterMappings declares every domain model / storage object pair.
func RegisterMappings(r *registry.Registry) error {
	return errors.Join(
		registry.Register[models.User, storagemodels.UserDbo](r),
		registry.Register[models.Event, storagemodels.EventDbo](r),
		registry.Register[models.Address, storagemodels.AddressDbo](r),
		registry.Register[models.UserEvent, storagemodels.UserEventDbo](r),
	)
}

// Store is an opened storage backend with its repositories.
type Store struct {
	Collections *Collections
	Converter   *converter.Converter

	Users      repository.UserRepository
	Events     repository.EventRepository
	Addresses  repository.AddressRepository
	UserEvents repository.UserEventRepository

	closers []func() error
}

// Services groups the services over one Store.
type Services struct {
	Users        *service.UserService
	Events       *service.EventService
	Addresses    *service.AddressService
	Participants *service.UserEventService
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	log        *zap.Logger
	registerer prometheus.Registerer
	dynamo     ddb.API
}

func WithLogger(l *zap.Logger) Option {
	return func(o *openOptions) { o.log = l }
}

// WithRegisterer sets where collection metrics are registered. The default
// is prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *openOptions) { o.registerer = reg }
}

// WithDynamoDBClient replaces the client built from the AWS settings.
func WithDynamoDBClient(api ddb.API) Option {
	return func(o *openOptions) { o.dynamo = api }
}

// backend opens collections of one storage driver.
type backend struct {
	driver  string
	table   string
	sql     *sqlstore.DB
	bolt    *bbolt.DB
	dynamo  ddb.API
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Open registers the mappings, connects the configured storage driver and
// builds the repositories.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Store, error) {
	o := openOptions{log: zap.NewNop(), registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := registry.New()
	if err := RegisterMappings(reg); err != nil {
		return nil, err
	}
	reg.Seal()

	s := &Store{Collections: NewCollections(), Converter: converter.New(reg)}
	b := &backend{driver: cfg.Storage.Driver, table: cfg.Storage.Table, dynamo: o.dynamo, log: o.log}

	if err := s.connect(ctx, cfg, b); err != nil {
		_ = s.Close()
		return nil, err
	}
	if cfg.Metrics.Enabled {
		m, err := metrics.New(o.registerer)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		b.metrics = m
	}

	err := errors.Join(
		openCollection[storagemodels.UserDbo](b, s.Collections),
		openCollection[storagemodels.EventDbo](b, s.Collections),
		openCollection[storagemodels.AddressDbo](b, s.Collections),
		openCollection[storagemodels.UserEventDbo](b, s.Collections),
	)
	if err == nil {
		err = s.bind()
	}
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	o.log.Info("storage opened",
		zap.String("driver", cfg.Storage.Driver),
		zap.Strings("tables", s.Collections.Tables()),
		zap.Bool("metrics", cfg.Metrics.Enabled))
	return s, nil
}

func (s *Store) connect(ctx context.Context, cfg *config.Config, b *backend) error {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
	case config.DriverSQLite, config.DriverPostgres:
		dialect, err := sqlstore.DialectFor(cfg.Storage.Driver)
		if err != nil {
			return err
		}
		db, err := sqlstore.Open(ctx, dialect, cfg.Storage.DSN)
		if err != nil {
			return err
		}
		b.sql = db
		s.closers = append(s.closers, db.Close)
	case config.DriverBolt:
		db, err := boltstore.Open(cfg.Storage.DSN)
		if err != nil {
			return err
		}
		b.bolt = db
		s.closers = append(s.closers, db.Close)
	case config.DriverDynamoDB:
		if b.dynamo != nil {
			return nil
		}
		client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientConfig{
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
		})
		if err != nil {
			return err
		}
		b.dynamo = client
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

func openCollection[D any](b *backend, colls *Collections) error {
	var coll datastore.Collection[D]
	switch b.driver {
	case config.DriverMemory:
		c, err := memory.New[D]()
		if err != nil {
			return err
		}
		coll = c
	case config.DriverSQLite, config.DriverPostgres:
		c, err := sqlstore.New[D](b.sql)
		if err != nil {
			return err
		}
		coll = c
	case config.DriverBolt:
		c, err := boltstore.New[D](b.bolt)
		if err != nil {
			return err
		}
		coll = c
	case config.DriverDynamoDB:
		c, err := ddb.New[D](b.dynamo, b.table, ddb.WithLogger(b.log))
		if err != nil {
			return err
		}
		coll = c
	default:
		return fmt.Errorf("unknown storage driver %q", b.driver)
	}

	if b.metrics != nil {
		coll = metrics.Wrap(coll, b.metrics)
	}
	return RegisterCollection(colls, coll)
}

// bind builds the repositories over the registered collections.
func (s *Store) bind() error {
	users, err := GetCollection[storagemodels.UserDbo](s.Collections)
	if err != nil {
		return err
	}
	events, err := GetCollection[storagemodels.EventDbo](s.Collections)
	if err != nil {
		return err
	}
	addresses, err := GetCollection[storagemodels.AddressDbo](s.Collections)
	if err != nil {
		return err
	}
	userEvents, err := GetCollection[storagemodels.UserEventDbo](s.Collections)
	if err != nil {
		return err
	}

	if s.Users, err = repository.New[models.User, storagemodels.UserDbo](users, s.Converter); err != nil {
		return err
	}
	if s.Events, err = repository.New[models.Event, storagemodels.EventDbo](events, s.Converter); err != nil {
		return err
	}
	if s.Addresses, err = repository.New[models.Address, storagemodels.AddressDbo](addresses, s.Converter); err != nil {
		return err
	}
	s.UserEvents = repository.NewUserEvents(userEvents, s.Converter)
	return nil
}

// Services builds the services over the store's repositories.
func (s *Store) Services(opts ...service.Option) *Services {
	return &Services{
		Users:        service.NewUserService(s.Users, opts...),
		Events:       service.NewEventService(s.Events, s.Addresses, opts...),
		Addresses:    service.NewAddressService(s.Addresses, opts...),
		Participants: service.NewUserEventService(s.UserEvents, s.Users, s.Events, s.Addresses, opts...),
	}
}

// Close releases the backend connections.
func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
