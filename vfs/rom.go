/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  rom.go - Objecte ROM: imatge oberta amb la seua capa d'overlay.
 *           Totes les consultes combinen la vista descodificada amb
 *           la capa.
 */

package vfs

import (
  "fmt"
  "io"

  "github.com/adriagipas/ctrvfs/citrus"
  "github.com/adriagipas/ctrvfs/nitro"
  "github.com/adriagipas/ctrvfs/utils"
  farm "github.com/dgryski/go-farm"
  lru "github.com/hashicorp/golang-lru/v2"
)


/*********/
/* TIPUS */
/*********/

// Nombre màxim de resolucions de la imatge en memòria.
const _RESOLVE_CACHE_SIZE= 256

type Rom struct {

  fs utils.HostFS

  acc       utils.Accessor
  container *citrus.Container // nil si no és una imatge 3DS
  nds       *nitro.NDS        // nil si no és un cartutx DS
  backing   backingFS
  ov        *overlay
  cwd       []string

  // Cache de resolucions de la vista descodificada. La vista és
  // immutable, per tant les entrades no caduquen mai.
  cache *lru.Cache[uint64,*node]

}


/************/
/* FUNCIONS */
/************/

func newRom( fs utils.HostFS, backing backingFS ) (*Rom,error) {

  cache,err:= lru.New[uint64,*node] ( _RESOLVE_CACHE_SIZE )
  if err != nil { return nil,err }

  ret:= Rom{
    fs: fs,
    backing: backing,
    ov: newOverlay ( fs ),
    cache: cache,
  }

  return &ret,nil

} // end newRom


// Obri una imatge a partir d'un accessor. La detecció del format es
// fa per sondeig: NCSD, CIA, NCCH, RomFS, ExeFS i per últim cartutx
// DS.
func OpenAccessor( fs utils.HostFS, acc utils.Accessor ) (*Rom,error) {

  if citrus.Detect ( acc ) != citrus.TYPE_UNK {
    container,err:= citrus.NewContainer ( acc )
    if err != nil { return nil,err }
    ret,err:= newRom ( fs, newCitrusBacking ( container ) )
    if err != nil { return nil,err }
    ret.acc= acc
    ret.container= container
    return ret,nil
  }

  if nitro.ProbeNDS ( acc ) {
    nds,err:= nitro.NewNDS ( acc )
    if err != nil { return nil,err }
    ret,err:= newRom ( fs, newNitroBacking ( nds ) )
    if err != nil { return nil,err }
    ret.acc= acc
    ret.nds= nds
    return ret,nil
  }

  return nil,fmt.Errorf ( "Unable to detect the image type: %w",
    utils.ErrUnsupportedFormat )

} // end OpenAccessor


// Obri una imatge o una carpeta. Les carpetes (una imatge ja extreta)
// es projecten directament, sense descodificar res.
func Open( fs utils.HostFS, source string ) (*Rom,error) {

  // Carpeta local.
  if fs.DirectoryExists ( source ) {
    return newRom ( fs, newFolderBacking ( fs, source ) )
  }
  if !fs.FileExists ( source ) {
    return nil,fmt.Errorf ( "'%s': %w", source, utils.ErrNotFound )
  }

  // Fitxer imatge.
  var acc utils.Accessor
  var err error
  if opener,ok:= fs.(utils.AccessorOpener); ok {
    acc,err= opener.OpenAccessor ( source )
  } else {
    var data []byte
    data,err= fs.ReadAllBytes ( source )
    if err == nil {
      acc= utils.NewMemAccessor ( data )
    }
  }
  if err != nil { return nil,err }

  ret,err:= OpenAccessor ( fs, acc )
  if err != nil {
    if closer,ok:= acc.(io.Closer); ok { closer.Close () }
    return nil,err
  }

  return ret,nil

} // end Open


// Allibera la carpeta scratch (si no l'ha proporcionada el caller) i
// tanca la imatge.
func (self *Rom) Close() error {

  if err:= self.ov.close (); err != nil { return err }
  if closer,ok:= self.acc.(io.Closer); ok {
    return closer.Close ()
  }

  return nil

} // end Close


// Fixa la carpeta scratch de la capa d'overlay. Les carpetes
// proporcionades així no s'esborren en tancar.
func (self *Rom) SetScratchDirectory( dir string ) {
  self.ov.setScratch ( dir )
} // end SetScratchDirectory


// Canvia el directori de treball.
func (self *Rom) ChangeDirectory( path string ) error {

  segs:= splitPath ( path, self.cwd )
  if !self.directoryExists ( segs ) {
    return fmt.Errorf ( "'%s' is not a directory: %w", joinAbs ( segs ),
      utils.ErrNotFound )
  }
  self.cwd= segs

  return nil

} // end ChangeDirectory


func (self *Rom) WorkingDirectory() string {
  return joinAbs ( self.cwd )
} // end WorkingDirectory


// Resol un path en la vista descodificada, passant per la cache.
func (self *Rom) resolveBacking( segs []string ) (*node,error) {

  key:= farm.Hash64 ( []byte(pathKey ( segs )) )
  if n,ok:= self.cache.Get ( key ); ok {
    return n,nil
  }
  n,err:= self.backing.resolve ( segs )
  if err != nil { return nil,err }
  self.cache.Add ( key, n )

  return n,nil

} // end resolveBacking


// Resol un path de fitxer combinant la capa d'overlay amb la vista
// descodificada.
func (self *Rom) resolveFile( segs []string ) (utils.Accessor,error) {

  if self.ov.isBlacklisted ( segs ) {
    return nil,notFound ( segs )
  }
  data,found,err:= self.ov.read ( segs )
  if err != nil { return nil,err }
  if found {
    return utils.NewMemAccessor ( data ),nil
  }
  n,err:= self.resolveBacking ( segs )
  if err != nil { return nil,err }
  if n.isDir {
    return nil,fmt.Errorf ( "'%s' is a directory: %w", joinAbs ( segs ),
      utils.ErrNotFound )
  }

  return n.acc,nil

} // end resolveFile


// Contingut d'un directori: unió de la vista descodificada i la capa
// d'overlay, aplicant la llista negra. Les entrades de la capa fan
// ombra a les de la vista.
func (self *Rom) listDir( segs []string ) (*dirListing,error) {

  if self.ov.isBlacklisted ( segs ) {
    return nil,notFound ( segs )
  }

  var back *dirListing
  if n,err:= self.resolveBacking ( segs ); err == nil {
    if !n.isDir {
      return nil,fmt.Errorf ( "'%s' is not a directory: %w",
        joinAbs ( segs ), utils.ErrNotFound )
    }
    back= &n.listing
  }
  scratch,has_scratch:= self.ov.list ( segs )
  if back == nil && !has_scratch && len(segs) > 0 {
    return nil,notFound ( segs )
  }

  var ret dirListing
  add:= func(listing *dirListing) {
    if listing == nil { return }
    for _,d:= range listing.dirs {
      child:= append(append([]string{},segs...),d)
      if self.ov.isBlacklisted ( child ) { continue }
      if containsFold ( ret.dirs, d ) { continue }
      ret.dirs= append(ret.dirs,d)
    }
    for _,f:= range listing.files {
      child:= append(append([]string{},segs...),f)
      if self.ov.isBlacklisted ( child ) { continue }
      if containsFold ( ret.files, f ) { continue }
      ret.files= append(ret.files,f)
    }
  }
  add ( back )
  add ( scratch )

  return &ret,nil

} // end listDir


func (self *Rom) fileExists( segs []string ) bool {

  if self.ov.isBlacklisted ( segs ) { return false }
  if self.ov.hasFile ( segs ) { return true }
  n,err:= self.resolveBacking ( segs )

  return err == nil && !n.isDir

} // end fileExists


func (self *Rom) directoryExists( segs []string ) bool {

  if len(segs) == 0 { return true }
  if self.ov.isBlacklisted ( segs ) { return false }
  if self.ov.hasDir ( segs ) { return true }
  n,err:= self.resolveBacking ( segs )

  return err == nil && n.isDir

} // end directoryExists


// Cert si el path apunta a un fitxer.
func (self *Rom) FileExists( path string ) bool {
  return self.fileExists ( splitPath ( path, self.cwd ) )
} // end FileExists


// Cert si el path apunta a un directori.
func (self *Rom) DirectoryExists( path string ) bool {
  return self.directoryExists ( splitPath ( path, self.cwd ) )
} // end DirectoryExists


// Grandària del fitxer en bytes.
func (self *Rom) GetFileLength( path string ) (int64,error) {

  acc,err:= self.resolveFile ( splitPath ( path, self.cwd ) )
  if err != nil { return -1,err }

  return acc.Len (),nil

} // end GetFileLength


// Llig el fitxer sencer.
func (self *Rom) ReadAllBytes( path string ) ([]byte,error) {

  acc,err:= self.resolveFile ( splitPath ( path, self.cwd ) )
  if err != nil { return nil,err }
  ret:= make([]byte,acc.Len ())
  if err:= acc.Read ( ret, 0 ); err != nil {
    return nil,err
  }

  return ret,nil

} // end ReadAllBytes


// Torna un lector seqüencial del fitxer.
func (self *Rom) OpenFile( path string ) (utils.FileReader,error) {

  acc,err:= self.resolveFile ( splitPath ( path, self.cwd ) )
  if err != nil { return nil,err }

  return utils.NewAccessorReader ( acc ),nil

} // end OpenFile


// Escriu el fitxer en la capa d'overlay. Les lectures posteriors
// tornen exactament aquests bytes, independentment de si el path
// existia en la imatge.
func (self *Rom) WriteAllBytes( path string, data []byte ) error {
  return self.ov.write ( splitPath ( path, self.cwd ), data )
} // end WriteAllBytes


// Esborra el fitxer: deixa d'existir i de llistar-se, encara que siga
// en la imatge. Una escriptura posterior el ressuscita.
func (self *Rom) DeleteFile( path string ) error {

  segs:= splitPath ( path, self.cwd )
  if !self.fileExists ( segs ) {
    return notFound ( segs )
  }

  return self.ov.del ( segs )

} // end DeleteFile


// Com DeleteFile però per a directoris. Amaga tot el subarbre.
func (self *Rom) DeleteDirectory( path string ) error {

  segs:= splitPath ( path, self.cwd )
  if !self.directoryExists ( segs ) {
    return notFound ( segs )
  }

  return self.ov.del ( segs )

} // end DeleteDirectory


// Crea un directori en la capa d'overlay.
func (self *Rom) CreateDirectory( path string ) error {

  segs:= splitPath ( path, self.cwd )
  if !self.backing.mkdirAllowed ( segs ) {
    return fmt.Errorf ( "cannot create a directory at '%s': %w",
      joinAbs ( segs ), utils.ErrNotSupported )
  }

  return self.ov.mkdir ( segs )

} // end CreateDirectory


// Imprimeix la informació de la imatge en el fitxer especificat. Cada
// línia s'imprimeix amb el prefix indicat.
func (self *Rom) PrintInfo( file io.Writer, prefix string ) error {

  if self.container != nil {
    return self.printInfo3DS ( file, prefix )
  } else if self.nds != nil {
    return self.printInfoNDS ( file, prefix )
  }
  fmt.Fprintf ( file, "%sLOCAL FOLDER\n", prefix )

  return nil

} // end PrintInfo


func (self *Rom) printInfo3DS( file io.Writer, prefix string ) error {

  F:= func(format string, args... any) {
    fmt.Fprint ( file, prefix )
    fmt.Fprintf ( file, format, args... )
    fmt.Fprint ( file, "\n" )
  }

  if cci:= self.container.CCI; cci != nil {
    F("CTR Cart Image (CCI)")
    F("")
    F(" Media Id.:     %016x",cci.MediaID)
    F(" Title Version: %04x",cci.TitleVersion)
    F(" Card Revision: %04x",cci.CardRevision)
  } else if cia:= self.container.CIAHeader; cia != nil {
    F("CTR Importable Archive (CIA)")
    F("")
    F(" Title Id.:     %016x",cia.TitleID)
    F(" Title Version: %04x",cia.TitleVersion)
    if self.container.IsDLC {
      F(" Downloadable content")
    }
  }
  F("Partitions:")
  for i:= 0; i < 8; i++ {
    p:= self.container.Partition ( i )
    if p == nil || p.NCCH == nil { continue }
    F("")
    F("  %d)",i)
    F("")
    h:= &p.NCCH.Header
    F("    Id.:          %016x",h.Id)
    F("    Maker Code:   %s",h.MakerCode)
    F("    Version:      %04x",h.Version)
    F("    Program Id.:  %016x",h.ProgramId)
    F("    Product Code: %s",h.ProductCode)
    var ftype string
    if h.Type == citrus.NCCH_TYPE_CXI {
      ftype= "CXI"
    } else if h.Type == citrus.NCCH_TYPE_CFA {
      ftype= "CFA"
    } else {
      ftype= "Unknown"
    }
    F("    Type:         %s",ftype)
    F("    SIZE:         %s",
      utils.NumBytesToStr ( uint64(h.Size) ) )
  }

  return nil

} // end printInfo3DS


func (self *Rom) printInfoNDS( file io.Writer, prefix string ) error {

  F:= func(format string, args... any) {
    fmt.Fprint ( file, prefix )
    fmt.Fprintf ( file, format, args... )
    fmt.Fprint ( file, "\n" )
  }

  h:= &self.nds.Header
  F("Nintendo DS cartridge")
  F("")
  F(" Game Title:  %s",h.GameTitle)
  F(" Game Code:   %s",h.GameCode)
  F(" Maker Code:  %s",h.MakerCode)
  F(" ARM9:        %s",utils.NumBytesToStr ( uint64(h.Arm9.Size) ))
  F(" ARM7:        %s",utils.NumBytesToStr ( uint64(h.Arm7.Size) ))
  F(" Files:       %d",len(self.nds.FAT))
  F(" Overlays:    %d/%d",len(self.nds.Overlay9),len(self.nds.Overlay7))

  return nil

} // end printInfoNDS
