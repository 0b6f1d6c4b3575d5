package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

var (
	bookingReq  domain.BookingRequest
	bookingJSON bool
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Manage ticket bookings",
}

var bookingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Book a ticket",
	Long: `Records a booking. The provider must be one listed by 'busrag provider list'.

Example:
  busrag booking add --name "Rahim" --phone 01700000000 --provider Greenline \
    --origin Dhaka --destination Rajshahi --date 2026-11-02`,
	Args: cobra.NoArgs,
	RunE: runBookingAdd,
}

var bookingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBookingList,
}

var bookingCancelCmd = &cobra.Command{
	Use:   "cancel [id]",
	Short: "Cancel a booking",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookingCancel,
}

func init() {
	f := bookingAddCmd.Flags()
	f.StringVar(&bookingReq.Name, "name", "", "passenger name")
	f.StringVar(&bookingReq.Phone, "phone", "", "phone number")
	f.StringVar(&bookingReq.Provider, "provider", "", "bus provider")
	f.StringVar(&bookingReq.Origin, "origin", "Dhaka", "origin city")
	f.StringVar(&bookingReq.Destination, "destination", "Rajshahi", "destination city")
	f.StringVar(&bookingReq.TravelDate, "date", "", "travel date YYYY-MM-DD (default today)")

	bookingListCmd.Flags().BoolVar(&bookingJSON, "json", false, "output bookings as JSON")

	bookingCmd.AddCommand(bookingAddCmd)
	bookingCmd.AddCommand(bookingListCmd)
	bookingCmd.AddCommand(bookingCancelCmd)
	rootCmd.AddCommand(bookingCmd)
}

func runBookingAdd(cmd *cobra.Command, _ []string) error {
	if bookingService == nil {
		return errors.New("booking service not configured")
	}

	req := bookingReq
	if req.TravelDate == "" {
		req.TravelDate = time.Now().Format(domain.TravelDateLayout)
	}

	booking, err := bookingService.Book(commandContext(cmd), req)
	if err != nil {
		return fmt.Errorf("booking failed: %w", err)
	}

	cmd.Printf("Booking %d created: %s, %s %s -> %s on %s\n", booking.ID, booking.Name,
		booking.Provider, booking.Origin, booking.Destination, booking.TravelDate)
	return nil
}

func runBookingList(cmd *cobra.Command, _ []string) error {
	if bookingService == nil {
		return errors.New("booking service not configured")
	}

	bookings, err := bookingService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	if bookingJSON {
		return outputJSON(cmd, bookings)
	}
	if len(bookings) == 0 {
		cmd.Println("No bookings yet.")
		return nil
	}
	for _, b := range bookings {
		cmd.Printf("ID %d  %s (%s)  %s  %s -> %s  %s\n",
			b.ID, b.Name, b.Phone, b.Provider, b.Origin, b.Destination, b.TravelDate)
	}
	return nil
}

func runBookingCancel(cmd *cobra.Command, args []string) error {
	if bookingService == nil {
		return errors.New("booking service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid booking id %q", args[0])
	}

	if err := bookingService.Cancel(commandContext(cmd), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("booking %d not found", id)
		}
		return fmt.Errorf("cancel failed: %w", err)
	}

	cmd.Printf("Cancelled booking %d\n", id)
	return nil
}
