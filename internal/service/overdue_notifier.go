package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// OverdueNotifier quét định kỳ các lượt gửi xe mở quá lâu và đẩy cảnh báo
// nhắm đến đúng khách hàng sở hữu xe. Mỗi lượt chỉ được cảnh báo một lần;
// khi lượt đóng lại thì dấu vết cảnh báo được dọn.
type OverdueNotifier struct {
	store     repository.Store
	notifier  Notifier
	threshold time.Duration
	interval  time.Duration

	mu       sync.Mutex
	notified map[int]bool
}

func NewOverdueNotifier(store repository.Store, notifier Notifier, threshold, interval time.Duration) *OverdueNotifier {
	return &OverdueNotifier{
		store:     store,
		notifier:  notifier,
		threshold: threshold,
		interval:  interval,
		notified:  make(map[int]bool),
	}
}

// Run chạy cho đến khi ctx bị hủy; gọi trong goroutine riêng.
func (n *OverdueNotifier) Run(ctx context.Context) {
	log.Printf("Bắt đầu quét lượt gửi xe quá hạn: ngưỡng %v, chu kỳ %v", n.threshold, n.interval)
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Dừng quét lượt gửi xe quá hạn")
			return
		case <-ticker.C:
			if err := n.Scan(ctx); err != nil {
				log.Printf("Lỗi khi quét lượt gửi xe quá hạn: %v", err)
			}
		}
	}
}

// Scan thực hiện một vòng quét. Tách riêng để test không phải chờ ticker.
func (n *OverdueNotifier) Scan(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-n.threshold)
	details, err := n.store.Repos().Registrations.FindOpenOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	stillOpen := make(map[int]bool, len(details))
	for _, d := range details {
		stillOpen[d.ID] = true

		n.mu.Lock()
		already := n.notified[d.ID]
		if !already {
			n.notified[d.ID] = true
		}
		n.mu.Unlock()
		if already {
			continue
		}

		hours := time.Now().UTC().Sub(d.CheckInTime).Hours()
		n.notifier.SendToUser(d.CustomerID, domain.EventRegistrationOverdue, domain.RegistrationOverdueEvent{
			RegistrationID: d.ID,
			SlotCode:       d.SlotCode,
			PlateNumber:    d.PlateNumber,
			CheckInTime:    d.CheckInTime,
			HoursParked:    hours,
		})
		log.Printf("Cảnh báo quá hạn: lượt #%d, xe %s, đã đỗ %.1f giờ", d.ID, d.PlateNumber, hours)
	}

	// Dọn các lượt đã đóng khỏi bộ nhớ.
	n.mu.Lock()
	for id := range n.notified {
		if !stillOpen[id] {
			delete(n.notified, id)
		}
	}
	n.mu.Unlock()
	return nil
}
