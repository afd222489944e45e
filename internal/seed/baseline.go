package seed

import (
	"time"

	"github.com/rihla-app/localbase/internal/auth"
	"github.com/rihla-app/localbase/internal/row"
)

// Baseline returns the built-in demo data set: two drivers, one passenger, a
// handful of trips in different states, a booking, wallets with transaction
// history, notifications, a message thread, a vehicle, a referral code, and
// badges. Ids are fixed so the demo UI can link straight to known rows.
func Baseline() *Seed {
	day := func(d, hour, min int) row.Time {
		return row.Time(time.Date(2026, 3, d, hour, min, 0, 0, time.UTC))
	}

	return &Seed{Collections: map[string][]row.Row{
		auth.UsersCollection: {
			{
				"id":       row.String("user-demo"),
				"email":    row.String("demo@rihla.local"),
				"password": row.String("demo1234"),
				"role":     row.String("passenger"),
			},
		},
		"profiles": {
			{
				"id":        row.String("driver-1"),
				"full_name": row.String("Ahmed Al-Farsi"),
				"role":      row.String("driver"),
				"rating":    row.Number(4.8),
				"phone":     row.String("+966500000001"),
			},
			{
				"id":        row.String("driver-2"),
				"full_name": row.String("Layla Haddad"),
				"role":      row.String("driver"),
				"rating":    row.Number(4.9),
				"phone":     row.String("+966500000002"),
			},
			{
				"id":        row.String("passenger-1"),
				"full_name": row.String("Sara Nader"),
				"role":      row.String("passenger"),
				"phone":     row.String("+966500000003"),
			},
		},
		"trips": {
			{
				"id":           row.String("trip-1"),
				"driver_id":    row.String("driver-1"),
				"passenger_id": row.String("passenger-1"),
				"origin":       row.String("King Fahd Road"),
				"destination":  row.String("Olaya District"),
				"status":       row.String("completed"),
				"fare":         row.Number(32.5),
				"requested_at": day(2, 9, 15),
				"completed_at": day(2, 9, 42),
			},
			{
				"id":           row.String("trip-2"),
				"driver_id":    row.String("driver-2"),
				"passenger_id": row.String("passenger-1"),
				"origin":       row.String("Olaya District"),
				"destination":  row.String("Diplomatic Quarter"),
				"status":       row.String("accepted"),
				"fare":         row.Number(18),
				"requested_at": day(3, 14, 5),
			},
			{
				"id":           row.String("trip-3"),
				"passenger_id": row.String("passenger-1"),
				"origin":       row.String("Airport Terminal 1"),
				"destination":  row.String("King Fahd Road"),
				"status":       row.String("requested"),
				"fare":         row.Number(55),
				"requested_at": day(4, 7, 30),
			},
		},
		"bookings": {
			{
				"id":         row.String("booking-1"),
				"trip_id":    row.String("trip-2"),
				"seats":      row.Number(1),
				"created_at": day(3, 14, 6),
			},
		},
		"wallets": {
			{
				"id":       row.String("wallet-passenger-1"),
				"owner_id": row.String("passenger-1"),
				"balance":  row.Number(120.75),
				"currency": row.String("SAR"),
			},
			{
				"id":       row.String("wallet-driver-1"),
				"owner_id": row.String("driver-1"),
				"balance":  row.Number(860),
				"currency": row.String("SAR"),
			},
		},
		"transactions": {
			{
				"id":         row.String("txn-1"),
				"wallet_id":  row.String("wallet-passenger-1"),
				"amount":     row.Number(-32.5),
				"kind":       row.String("trip_fare"),
				"trip_id":    row.String("trip-1"),
				"created_at": day(2, 9, 43),
			},
			{
				"id":         row.String("txn-2"),
				"wallet_id":  row.String("wallet-driver-1"),
				"amount":     row.Number(26),
				"kind":       row.String("trip_payout"),
				"trip_id":    row.String("trip-1"),
				"created_at": day(2, 9, 43),
			},
			{
				"id":         row.String("txn-3"),
				"wallet_id":  row.String("wallet-passenger-1"),
				"amount":     row.Number(100),
				"kind":       row.String("top_up"),
				"created_at": day(1, 18, 0),
			},
		},
		"notifications": {
			{
				"id":         row.String("notif-1"),
				"user_id":    row.String("passenger-1"),
				"title":      row.String("Trip completed"),
				"body":       row.String("Your trip to Olaya District is complete."),
				"read":       row.Bool(true),
				"created_at": day(2, 9, 43),
			},
			{
				"id":         row.String("notif-2"),
				"user_id":    row.String("passenger-1"),
				"title":      row.String("Driver on the way"),
				"body":       row.String("Layla is heading to your pickup point."),
				"read":       row.Bool(false),
				"created_at": day(3, 14, 7),
			},
		},
		"messages": {
			{
				"id":         row.String("msg-1"),
				"trip_id":    row.String("trip-2"),
				"sender_id":  row.String("passenger-1"),
				"body":       row.String("I'm by the north entrance."),
				"created_at": day(3, 14, 8),
			},
			{
				"id":         row.String("msg-2"),
				"trip_id":    row.String("trip-2"),
				"sender_id":  row.String("driver-2"),
				"body":       row.String("On my way, two minutes out."),
				"created_at": day(3, 14, 9),
			},
		},
		"vehicles": {
			{
				"id":        row.String("vehicle-1"),
				"driver_id": row.String("driver-1"),
				"make":      row.String("Toyota"),
				"model":     row.String("Camry"),
				"plate":     row.String("RHL 1234"),
				"color":     row.String("white"),
			},
		},
		"referrals": {
			{
				"id":       row.String("referral-1"),
				"owner_id": row.String("passenger-1"),
				"code":     row.String("SARA25"),
				"uses":     row.Number(2),
			},
		},
		"user_badges": {
			{
				"id":        row.String("badge-1"),
				"user_id":   row.String("driver-1"),
				"badge":     row.String("five_hundred_trips"),
				"earned_at": day(1, 12, 0),
			},
			{
				"id":        row.String("badge-2"),
				"user_id":   row.String("passenger-1"),
				"badge":     row.String("early_adopter"),
				"earned_at": day(1, 12, 0),
			},
		},
	}}
}
