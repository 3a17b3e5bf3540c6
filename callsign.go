package qrz

// Callsign is one callsign's profile record as returned by the QRZ XML API.
//
// Every field is a string exactly as QRZ returned it; absent tags are empty. Only the subset of tags this tool
// displays is modeled.
type Callsign struct {
	Call            string `xml:"call"`
	FirstName       string `xml:"fname"`
	LastName        string `xml:"name"`
	Nickname        string `xml:"nickname"`
	Born            string `xml:"born"`
	Address         string `xml:"addr1"`
	City            string `xml:"addr2"`
	State           string `xml:"state"`
	Zip             string `xml:"zip"`
	Country         string `xml:"country"`
	Latitude        string `xml:"lat"`
	Longitude       string `xml:"lon"`
	GridSquare      string `xml:"grid"`
	County          string `xml:"county"`
	CQZone          string `xml:"cqzone"`
	ITUZone         string `xml:"ituzone"`
	LicenseClass    string `xml:"class"`
	LicenseCodes    string `xml:"codes"`
	EffectiveDate   string `xml:"efdate"`
	ExpirationDate  string `xml:"expdate"`
	Email           string `xml:"email"`
	Website         string `xml:"url"`
	LoTW            string `xml:"lotw"`
	EQSL            string `xml:"eqsl"`
	MailQSL         string `xml:"mqsl"`
	ProfileViews    string `xml:"u_views"`
	ProfileImageURL string `xml:"image"`
	GeolocationSrc  string `xml:"geoloc"`
	Attention       string `xml:"attn"`
}

// Field is a display label paired with its value.
type Field struct {
	Label string
	Value string
}

// Fields returns the record's fields in display order, empty values included.
func (c *Callsign) Fields() []Field {
	return []Field{
		{"Callsign", c.Call},
		{"First Name", c.FirstName},
		{"Last Name", c.LastName},
		{"Nickname", c.Nickname},
		{"Born", c.Born},
		{"Address", c.Address},
		{"City", c.City},
		{"State", c.State},
		{"Zip Code", c.Zip},
		{"Country", c.Country},
		{"Latitude", c.Latitude},
		{"Longitude", c.Longitude},
		{"Grid Square", c.GridSquare},
		{"County", c.County},
		{"CQ Zone", c.CQZone},
		{"ITU Zone", c.ITUZone},
		{"License Class", c.LicenseClass},
		{"License Codes", c.LicenseCodes},
		{"Effective Date", c.EffectiveDate},
		{"Expiration Date", c.ExpirationDate},
		{"Email", c.Email},
		{"Website", c.Website},
		{"LoTW Member", c.LoTW},
		{"eQSL Member", c.EQSL},
		{"Accepts Paper QSL", c.MailQSL},
		{"Profile Views", c.ProfileViews},
		{"Profile Image URL", c.ProfileImageURL},
		{"Geo Source", c.GeolocationSrc},
		{"Attention", c.Attention},
	}
}
