package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	NumMembers      int
	NumClasses      int
	ConcurrentUsers int
	RequestsPerUser int
	TestDurationSec int
	ClassCapacity   int
}

// BookingRequest represents the API request
type BookingRequest struct {
	ClassID uuid.UUID `json:"class_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// LoadTestResult holds the results of load testing
type LoadTestResult struct {
	TotalRequests     int
	SuccessfulReqs    int
	FailedReqs        int
	ConflictReqs      int
	AvgResponseTimeMs float64
	MaxResponseTimeMs int64
	MinResponseTimeMs int64
	ThroughputRPS     float64
	ErrorsByType      map[string]int
}

// LoadTester handles class booking load testing
type LoadTester struct {
	config    LoadTestConfig
	client    *http.Client
	members   []uuid.UUID
	classes   []uuid.UUID
	results   LoadTestResult
	mutex     sync.Mutex
	startTime time.Time
}

// NewLoadTester creates a new load tester
func NewLoadTester(config LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		members: make([]uuid.UUID, config.NumMembers),
		classes: make([]uuid.UUID, config.NumClasses),
		results: LoadTestResult{
			ErrorsByType: make(map[string]int),
		},
	}
}

// Initialize sets up test data
func (lt *LoadTester) Initialize() {
	fmt.Println("Initializing load test data...")

	for i := 0; i < lt.config.NumMembers; i++ {
		lt.members[i] = uuid.New()
	}

	// Simulate classes with limited capacity
	for i := 0; i < lt.config.NumClasses; i++ {
		lt.classes[i] = uuid.New()
	}

	fmt.Printf("Generated %d members and %d classes\n", len(lt.members), len(lt.classes))
}

// RunLoadTest executes the load test
func (lt *LoadTester) RunLoadTest() {
	fmt.Printf("Starting load test with %d concurrent users...\n", lt.config.ConcurrentUsers)

	lt.startTime = time.Now()
	var wg sync.WaitGroup

	// Semaphore to limit concurrent requests
	semaphore := make(chan struct{}, lt.config.ConcurrentUsers)

	totalRequests := lt.config.ConcurrentUsers * lt.config.RequestsPerUser

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)

		go func(requestID int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			lt.simulateBookingAttempt(requestID)
		}(i)

		// Small delay between request starts to simulate realistic user behavior
		time.Sleep(10 * time.Millisecond)
	}

	wg.Wait()

	lt.calculateMetrics()
	lt.printResults()
}

// simulateBookingAttempt simulates a single member booking a class
func (lt *LoadTester) simulateBookingAttempt(requestID int) {
	startTime := time.Now()

	memberID := lt.members[requestID%len(lt.members)]
	classID := lt.classes[requestID%len(lt.classes)]

	reqBody := BookingRequest{
		ClassID: classID,
		UserID:  memberID,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		lt.recordError("json_marshal", startTime)
		return
	}

	url := fmt.Sprintf("%s/api/v1/bookings", lt.config.BaseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		lt.recordError("build_request", startTime)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", fmt.Sprintf("loadtest-%d", requestID))

	resp, err := lt.client.Do(req)

	responseTime := time.Since(startTime)

	if err != nil {
		lt.recordError("http_request", startTime)
		return
	}
	defer resp.Body.Close()

	lt.recordResponse(resp.StatusCode, responseTime)
}

// recordResponse records the response metrics
func (lt *LoadTester) recordResponse(statusCode int, responseTime time.Duration) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	responseTimeMs := responseTime.Milliseconds()

	if lt.results.MaxResponseTimeMs < responseTimeMs {
		lt.results.MaxResponseTimeMs = responseTimeMs
	}

	if lt.results.MinResponseTimeMs == 0 || lt.results.MinResponseTimeMs > responseTimeMs {
		lt.results.MinResponseTimeMs = responseTimeMs
	}

	// Running average
	currentAvg := lt.results.AvgResponseTimeMs
	currentCount := float64(lt.results.TotalRequests)
	lt.results.AvgResponseTimeMs = (currentAvg*(currentCount-1) + float64(responseTimeMs)) / currentCount

	switch {
	case statusCode >= 200 && statusCode < 300:
		lt.results.SuccessfulReqs++
	case statusCode == 409: // Conflict - duplicate booking or contention retry
		lt.results.ConflictReqs++
	default:
		lt.results.FailedReqs++
		lt.results.ErrorsByType[fmt.Sprintf("http_%d", statusCode)]++
	}
}

// recordError records an error that occurred during testing
func (lt *LoadTester) recordError(errorType string, startTime time.Time) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	lt.results.FailedReqs++
	lt.results.ErrorsByType[errorType]++
}

// calculateMetrics calculates final test metrics
func (lt *LoadTester) calculateMetrics() {
	totalDuration := time.Since(lt.startTime)
	lt.results.ThroughputRPS = float64(lt.results.TotalRequests) / totalDuration.Seconds()
}

// printResults displays the load test results
func (lt *LoadTester) printResults() {
	fmt.Println("\n" + strings.Repeat("=", 80))

	fmt.Printf("Test Configuration:\n")
	fmt.Printf("  - Concurrent Users: %d\n", lt.config.ConcurrentUsers)
	fmt.Printf("  - Requests per User: %d\n", lt.config.RequestsPerUser)
	fmt.Printf("  - Total Members: %d\n", lt.config.NumMembers)
	fmt.Printf("  - Total Classes: %d\n", lt.config.NumClasses)
	fmt.Printf("  - Class Capacity: %d seats each\n", lt.config.ClassCapacity)

	fmt.Printf("\nOverall Performance:\n")
	fmt.Printf("  - Total Requests: %d\n", lt.results.TotalRequests)
	fmt.Printf("  - Successful: %d (%.2f%%)\n",
		lt.results.SuccessfulReqs,
		float64(lt.results.SuccessfulReqs)/float64(lt.results.TotalRequests)*100)
	fmt.Printf("  - Conflicts: %d (%.2f%%)\n",
		lt.results.ConflictReqs,
		float64(lt.results.ConflictReqs)/float64(lt.results.TotalRequests)*100)
	fmt.Printf("  - Failed: %d (%.2f%%)\n",
		lt.results.FailedReqs,
		float64(lt.results.FailedReqs)/float64(lt.results.TotalRequests)*100)

	fmt.Printf("\nResponse Time Metrics:\n")
	fmt.Printf("  - Average: %.2f ms\n", lt.results.AvgResponseTimeMs)
	fmt.Printf("  - Minimum: %d ms\n", lt.results.MinResponseTimeMs)
	fmt.Printf("  - Maximum: %d ms\n", lt.results.MaxResponseTimeMs)

	fmt.Printf("\nThroughput:\n")
	fmt.Printf("  - Requests per Second: %.2f\n", lt.results.ThroughputRPS)

	if len(lt.results.ErrorsByType) > 0 {
		fmt.Printf("\nError Breakdown:\n")
		for errorType, count := range lt.results.ErrorsByType {
			fmt.Printf("  - %s: %d\n", errorType, count)
		}
	}

	fmt.Printf("\nContention Analysis:\n")
	totalSeats := lt.config.NumClasses * lt.config.ClassCapacity
	totalDemand := lt.results.TotalRequests
	contentionRatio := float64(totalDemand) / float64(totalSeats)
	fmt.Printf("  - Total Available Seats: %d\n", totalSeats)
	fmt.Printf("  - Total Booking Attempts: %d\n", totalDemand)
	fmt.Printf("  - Contention Ratio: %.2f:1\n", contentionRatio)

	if contentionRatio > 5 {
		fmt.Printf("  Very high contention, expect long waitlists\n")
	} else if contentionRatio > 2 {
		fmt.Printf("  High contention, some waitlisting expected\n")
	} else {
		fmt.Printf("  Reasonable contention level\n")
	}
}

// RunConcurrencyStressTest tests the system under increasing concurrent load
func (lt *LoadTester) RunConcurrencyStressTest() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("CONCURRENCY STRESS TEST")
	fmt.Println(strings.Repeat("=", 80))

	concurrencyLevels := []int{10, 50, 100, 200, 500}

	for _, concurrency := range concurrencyLevels {
		fmt.Printf("\nTesting with %d concurrent users...\n", concurrency)

		originalConfig := lt.config
		lt.config.ConcurrentUsers = concurrency
		lt.config.RequestsPerUser = 5

		lt.results = LoadTestResult{
			ErrorsByType: make(map[string]int),
		}

		lt.RunLoadTest()

		// Brief pause between tests
		time.Sleep(2 * time.Second)

		lt.config = originalConfig
	}
}

// loadtestCmd represents the loadtest command
var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Run load tests against the Class Booking API",
	Long: `Run load tests against the Class Booking API.
This includes:
- Concurrent member simulation
- Booking performance testing
- Contention analysis
- Throughput and response time metrics
- Optional stress testing with increasing concurrency levels`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoadTest()
	},
}

var (
	baseURL         string
	numMembers      int
	numClasses      int
	concurrentUsers int
	requestsPerUser int
	testDurationSec int
	classCapacity   int
	stressTest      bool
)

func init() {
	rootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the booking API")
	loadtestCmd.Flags().IntVar(&numMembers, "members", 1000, "Number of members to simulate")
	loadtestCmd.Flags().IntVar(&numClasses, "classes", 50, "Number of classes")
	loadtestCmd.Flags().IntVar(&concurrentUsers, "concurrent", 100, "Number of concurrent users")
	loadtestCmd.Flags().IntVar(&requestsPerUser, "requests", 10, "Number of requests per user")
	loadtestCmd.Flags().IntVar(&testDurationSec, "duration", 60, "Test duration in seconds")
	loadtestCmd.Flags().IntVar(&classCapacity, "capacity", 20, "Capacity per class")
	loadtestCmd.Flags().BoolVar(&stressTest, "stress", false, "Run concurrency stress test")
}

func runLoadTest() {
	config := LoadTestConfig{
		BaseURL:         baseURL,
		NumMembers:      numMembers,
		NumClasses:      numClasses,
		ConcurrentUsers: concurrentUsers,
		RequestsPerUser: requestsPerUser,
		TestDurationSec: testDurationSec,
		ClassCapacity:   classCapacity,
	}

	loadTester := NewLoadTester(config)
	loadTester.Initialize()

	fmt.Println("Class Booking System Load Test")
	fmt.Println("==============================")

	loadTester.RunLoadTest()

	if stressTest {
		loadTester.RunConcurrencyStressTest()
	}
}
