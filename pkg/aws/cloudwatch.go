package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const (
	defaultLogGroup  = "/hijaab/storefront"
	logRetentionDays = 30
	logFlushInterval = 2 * time.Second
	logBatchSize     = 100
	logPutTimeout    = 5 * time.Second
)

// logEventsAPI is the part of the CloudWatch Logs client the shipper calls.
type logEventsAPI interface {
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchLogsClient buffers log lines and ships them to one CloudWatch
// Logs stream in batches. It implements io.Writer so it can back a zap core;
// Write never blocks on the network.
type CloudWatchLogsClient struct {
	api    logEventsAPI
	group  string
	stream string

	mu      sync.Mutex
	pending []types.InputLogEvent

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// NewCloudWatchLogsClient creates the log group (if needed), a fresh stream
// named after serviceName, and starts the background flusher.
func NewCloudWatchLogsClient(ctx context.Context, cfg sdkaws.Config, logGroupName, serviceName string) (*CloudWatchLogsClient, error) {
	if logGroupName == "" {
		logGroupName = defaultLogGroup
	}
	client := cloudwatchlogs.NewFromConfig(cfg)
	stream := fmt.Sprintf("%s-%d", serviceName, time.Now().Unix())

	if err := ensureLogGroup(ctx, client, logGroupName); err != nil {
		return nil, fmt.Errorf("failed to ensure log group: %w", err)
	}
	if _, err := client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(logGroupName),
		LogStreamName: sdkaws.String(stream),
	}); err != nil {
		return nil, fmt.Errorf("failed to create log stream: %w", err)
	}

	return newLogShipper(client, logGroupName, stream, logFlushInterval), nil
}

func newLogShipper(api logEventsAPI, group, stream string, interval time.Duration) *CloudWatchLogsClient {
	c := &CloudWatchLogsClient{
		api:    api,
		group:  group,
		stream: stream,
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	c.wg.Add(1)
	go c.run(interval)
	return c
}

func ensureLogGroup(ctx context.Context, client *cloudwatchlogs.Client, group string) error {
	_, err := client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: sdkaws.String(group)})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return err
	}
	_, err = client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    sdkaws.String(group),
		RetentionInDays: sdkaws.Int32(logRetentionDays),
	})
	if err != nil {
		return fmt.Errorf("failed to set retention policy: %w", err)
	}
	return nil
}

// Write queues one log line. A full batch wakes the flusher early.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	event := types.InputLogEvent{
		Message:   sdkaws.String(string(p)),
		Timestamp: sdkaws.Int64(time.Now().UnixMilli()),
	}

	c.mu.Lock()
	c.pending = append(c.pending, event)
	full := len(c.pending) >= logBatchSize
	c.mu.Unlock()

	if full {
		select {
		case c.kick <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer by shipping whatever is queued.
func (c *CloudWatchLogsClient) Sync() error {
	return c.flush()
}

// Close stops the flusher after a final flush.
func (c *CloudWatchLogsClient) Close() error {
	close(c.done)
	c.wg.Wait()
	return c.flush()
}

func (c *CloudWatchLogsClient) run(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		case <-c.kick:
		}
		if err := c.flush(); err != nil {
			fmt.Fprintf(os.Stderr, "CloudWatch write error: %v\n", err)
		}
	}
}

// flush sends queued events in batches. Events of a failed batch are
// dropped; log shipping never backs up the caller.
func (c *CloudWatchLogsClient) flush() error {
	c.mu.Lock()
	events := c.pending
	c.pending = nil
	c.mu.Unlock()

	var errs []error
	for start := 0; start < len(events); start += logBatchSize {
		end := min(start+logBatchSize, len(events))
		ctx, cancel := context.WithTimeout(context.Background(), logPutTimeout)
		_, err := c.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  sdkaws.String(c.group),
			LogStreamName: sdkaws.String(c.stream),
			LogEvents:     events[start:end],
		})
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to put log events: %w", err))
		}
	}
	return errors.Join(errs...)
}
