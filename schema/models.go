package schema

import "time"

// Listing is one residential or commercial property listing. Media fields
// hold StoredAsset references produced by the intake pipeline: either remote
// object URLs or inline data URLs, in upload order.
type Listing struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Slug        string    `json:"slug" validate:"required"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Kind        string    `json:"kind" validate:"required,oneof=residential commercial"`
	Status      string    `json:"status" validate:"required,oneof=draft active sold rented withdrawn"`
	Price       int64     `json:"price" validate:"required,min=1"`
	Currency    string    `json:"currency" validate:"required,iso4217"`
	Address     string    `json:"address" validate:"required,max=500"`
	City        string    `json:"city" validate:"required,max=100"`
	Bedrooms    int       `json:"bedrooms" validate:"min=0,max=50"`
	Bathrooms   int       `json:"bathrooms" validate:"min=0,max=50"`
	AreaSqm     float64   `json:"areaSqm" validate:"min=0"`
	Photos      []string  `json:"photos" validate:"omitempty,dive,required"`
	VideoTour   string    `json:"videoTour,omitempty"`
	Documents   []string  `json:"documents" validate:"omitempty,dive,required"`
	OwnerID     string    `json:"ownerId" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Lead is a captured contact interested in a listing.
type Lead struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	ListingID string    `json:"listingId" validate:"required,uuid4"`
	Name      string    `json:"name" validate:"required,max=200"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty,e164"`
	Source    string    `json:"source" validate:"required,oneof=web referral portal"`
	CreatedAt time.Time `json:"createdAt"`
}

// Enquiry is a free-form question about a listing.
type Enquiry struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	ListingID string    `json:"listingId" validate:"required,uuid4"`
	Name      string    `json:"name" validate:"required,max=200"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty,e164"`
	Message   string    `json:"message" validate:"required,min=10,max=2000"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payment records a listing fee or promotion charge.
type Payment struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	ListingID string    `json:"listingId" validate:"required,uuid4"`
	UserID    string    `json:"userId" validate:"required"`
	Amount    int64     `json:"amount" validate:"required,min=1"`
	Currency  string    `json:"currency" validate:"required,iso4217"`
	Status    string    `json:"status" validate:"required,oneof=pending succeeded failed refunded"`
	Provider  string    `json:"provider" validate:"required,max=100"`
	Reference string    `json:"reference" validate:"max=200"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is an account. Email and username are unique across the collection;
// the document store enforces that with indexed columns.
type User struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	Username  string    `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty,e164"`
	FullName  string    `json:"fullName" validate:"required,max=200"`
	Role      string    `json:"role" validate:"required,oneof=admin agent customer"`
	CreatedAt time.Time `json:"createdAt"`
}
