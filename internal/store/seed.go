package store

import "time"

// seed populates the demo dataset: the official welcome chat plus a
// handful of sample threads. Caller must hold s.mu.
func (s *Store) seed() {
	now := time.Now()

	s.chats = []Chat{
		{
			ID: OfficialChatID, Kind: KindOfficial,
			Name: "DVChat Team", Avatar: "🚀",
			LastMessagePreview: "Welcome to DVChat!",
			LastMessageAt:      now, UnreadCount: 1, Pinned: true, Online: true,
		},
		{
			ID: 2, Kind: KindUser,
			Name: "Anna Smirnova", Avatar: "👩‍💼",
			LastMessagePreview: "Great! See you tomorrow",
			LastMessageAt:      now.Add(-10 * time.Minute),
			UnreadCount:        2, Online: true, Premium: true,
		},
		{
			ID: 3, Kind: KindUser,
			Name: "Ivan Petrov", Avatar: "👨‍💻",
			LastMessagePreview: "Thanks for the help",
			LastMessageAt:      now.Add(-2 * time.Hour), Online: true,
		},
		{
			ID: 4, Kind: KindGroup,
			Name: "Design Projects", Avatar: "🎨",
			LastMessagePreview: "Mockups are ready for review",
			LastMessageAt:      now.Add(-24 * time.Hour),
		},
		{
			ID: 5, Kind: KindChannel,
			Name: "Maria Kovaleva", Avatar: "👩‍🎤",
			LastMessagePreview: "See you at the meetup!",
			LastMessageAt:      now.Add(-25 * time.Hour), Premium: true,
		},
	}

	welcome := []Message{
		{Text: "Welcome to DVChat!", SentAt: now.Add(-3 * time.Minute)},
		{Text: "Say hi and we will answer right away.", SentAt: now},
	}
	for i := range welcome {
		welcome[i].ID = s.allocMsgIDLocked(OfficialChatID)
		welcome[i].ChatID = OfficialChatID
		welcome[i].Status = StatusRead
	}
	s.messages[OfficialChatID] = welcome

	anna := []Message{
		{Text: "Hi! How are you?", SentAt: now.Add(-13 * time.Minute)},
		{Text: "Doing great! You?", SentAt: now.Add(-12 * time.Minute), FromMe: true, Reactions: []string{"👍", "❤️"}},
		{Text: "Good too! Ready for tomorrow's meeting?", SentAt: now.Add(-11 * time.Minute)},
		{Text: "Great! See you tomorrow", SentAt: now.Add(-10 * time.Minute), FromMe: true, Status: StatusDelivered},
	}
	for i := range anna {
		anna[i].ID = s.allocMsgIDLocked(2)
		anna[i].ChatID = 2
		if anna[i].Status == "" {
			anna[i].Status = StatusRead
		}
	}
	s.messages[2] = anna

	for _, id := range []int{3, 4, 5} {
		s.messages[id] = nil
	}
}
