package main

// User represents the profile of an authenticated account
// as returned by the authentication endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReviewAuthor is the populated author reference embedded into each review.
type ReviewAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Review represents a single review attached to one book.
type Review struct {
	ID        string       `json:"id"`
	BookID    string       `json:"bookId"`
	Author    ReviewAuthor `json:"userId"`
	Rating    int          `json:"rating"`
	ReviewTxt string       `json:"reviewTxt"`
}

// Book represents a full book entity with its embedded reviews
// as returned by the single-book endpoint.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Year        int      `json:"year"`
	Reviews     []Review `json:"reviews"`
}

// BookSummary represents a book entry from the paginated list endpoint.
// The rating aggregates are computed server-side for list views only.
type BookSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Genre        string  `json:"genre"`
	Year         int     `json:"year"`
	AvgRating    float64 `json:"avgRating"`
	ReviewsCount int     `json:"reviewsCount"`
}

// BookPage is the paginated payload of the books list endpoint.
type BookPage struct {
	Data       []BookSummary `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the account creation request payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and user profile
// returned on a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// BookRequest is the create/update book request payload.
type BookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Year        int    `json:"year,omitempty"`
}

// ReviewRequest is the create review request payload.
type ReviewRequest struct {
	BookID    string `json:"bookId"`
	Rating    int    `json:"rating"`
	ReviewTxt string `json:"reviewTxt"`
}
