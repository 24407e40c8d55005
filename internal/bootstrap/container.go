package bootstrap

import (
	"context"
	"log"

	"featureboard-be/internal/config"
	"featureboard-be/internal/controller"
	"featureboard-be/internal/handler"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/memory"
	"featureboard-be/internal/repository/unitofwork"
	"featureboard-be/internal/service"
	"featureboard-be/internal/websocket"
	"featureboard-be/pkg/events"
	"featureboard-be/pkg/lock"
	pktNats "featureboard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ProductController controller.IProductController
	FeatureController controller.IFeatureController
	VoteController    controller.IVoteController
	CommentController controller.ICommentController
	RoadmapController controller.IRoadmapController

	// Board feed
	BoardFeedHandler *handler.BoardFeedHandler
	WebSocketHub     *websocket.Hub

	// Background services (started by Start)
	ConsumerService  service.IConsumerService
	BoardFeedService service.IBoardFeedService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every component on top of the given store. NATS and
// Redis are optional: with an empty URL the container falls back to the
// in-process event feed and the local lock.
func NewContainer(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Infrastructure
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	rdb := newRedisClient(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Vote.LockDriver == "redis" {
		if rdb != nil {
			locker = lock.NewRedisLocker(rdb, cfg.Vote.LockTTL)
			log.Printf("[INFO] Using Redis vote lock (ttl %s)", cfg.Vote.LockTTL)
		} else {
			log.Printf("[WARN] VOTE_LOCK_DRIVER=redis without REDIS_URL, using local lock")
		}
	}

	// 2. Event buses
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermillLogger)
	c.closers = append(c.closers, func() { pubSub.Close() })

	boardLogger := logger.NewIsolatedLogger(cfg.App.BoardLogFilePath)
	wsHub := websocket.NewHub(rdb, boardLogger)
	boardFeed := service.NewBoardFeedService(natsSub, wsHub, boardLogger)

	var eventPublisher events.Publisher = boardFeed
	if natsPub != nil {
		eventPublisher = natsPub
	}

	// 3. Services
	reconcileQueue := service.NewPublisherService(cfg.Vote.ReconcileTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Vote.ReconcileTopic, uowFactory, sysLogger)

	productService := service.NewProductService(uowFactory, memory.NewProductCache(cfg.Cache.ProductTTL), sysLogger)
	featureService := service.NewFeatureService(uowFactory, eventPublisher, sysLogger)
	voteService := service.NewVoteService(uowFactory, locker, eventPublisher, reconcileQueue, sysLogger)
	commentService := service.NewCommentService(uowFactory, eventPublisher, sysLogger)
	roadmapService := service.NewRoadmapService(uowFactory, sysLogger)

	// 4. Controllers
	c.ProductController = controller.NewProductController(productService)
	c.FeatureController = controller.NewFeatureController(featureService)
	c.VoteController = controller.NewVoteController(voteService)
	c.CommentController = controller.NewCommentController(commentService)
	c.RoadmapController = controller.NewRoadmapController(roadmapService)

	c.BoardFeedHandler = handler.NewBoardFeedHandler(productService, wsHub, boardLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService
	c.BoardFeedService = boardFeed

	return c
}

// Start launches the hub, the reconciler and the board feed. They stop when
// ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	return c.BoardFeedService.Start(ctx)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
